package game

// Question - one multiple-choice quiz entry
type Question struct {
	Code        string   `json:"code,omitempty"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Correct     string   `json:"-"`
	Explanation string   `json:"-"`
}

var programmingQuestions = []Question{
	{
		Code: `function calculateOxygen(level) {
    if (level < 0.18) {
        return "CRITICAL";
    } else if (level < 0.20) {
        return "WARNING";
    } else {
        return _____;
    }
}`,
		Prompt:  "¿Qué debe retornar la función cuando el nivel de oxígeno es normal?",
		Options: []string{`"NORMAL"`, `"SAFE"`, `"OK"`, `"OPTIMAL"`},
		Correct: `"NORMAL"`,
	},
	{
		Code: `for (let i = 0; i < systems.length; i++) {
    if (systems[i].status === "OFFLINE") {
        systems[i].restart();
        _____
    }
}`,
		Prompt:  "¿Qué línea falta para salir del bucle después de reiniciar el primer sistema offline?",
		Options: []string{"continue;", "break;", "return;", "exit;"},
		Correct: "break;",
	},
	{
		Code: `async function hackNexus() {
    try {
        const response = await fetch('/api/nexus');
        const data = await response.json();
        return data;
    } catch (error) {
        _____
    }
}`,
		Prompt: "¿Qué debe ir en el bloque catch para manejar errores correctamente?",
		Options: []string{
			`console.log("Error:", error);`,
			`throw new Error("Hack failed");`,
			`return { error: "Connection failed" };`,
			`alert("Error occurred");`,
		},
		Correct: `return { error: "Connection failed" };`,
	},
}

var libreQuestions = []Question{
	{
		Prompt: "¿Cuál fue el evento clave que inició el movimiento del software libre?",
		Options: []string{
			"La creación de Linux en 1991",
			"El Proyecto GNU iniciado por Richard Stallman en 1983",
			"La fundación de la FSF en 1985",
			"La creación del kernel Linux",
		},
		Correct:     "El Proyecto GNU iniciado por Richard Stallman en 1983",
		Explanation: "Richard Stallman inició el Proyecto GNU en 1983 para crear un sistema operativo completamente libre.",
	},
	{
		Prompt: "¿Qué significa 'copyleft' en el contexto del software libre?",
		Options: []string{
			"Prohibir la copia del software",
			"Permitir modificaciones pero mantener la licencia libre",
			"Copiar código de otros proyectos",
			"Vender software sin restricciones",
		},
		Correct:     "Permitir modificaciones pero mantener la licencia libre",
		Explanation: "El copyleft asegura que las modificaciones del software libre permanezcan libres.",
	},
	{
		Prompt: "En el contexto del juego, ¿por qué el software libre es crucial contra NEXUS?",
		Options: []string{
			"Es más barato que el software propietario",
			"Permite auditar el código y verificar que no hay backdoors",
			"Funciona mejor en servidores",
			"Es más fácil de instalar",
		},
		Correct:     "Permite auditar el código y verificar que no hay backdoors",
		Explanation: "La transparencia del código abierto permite detectar y prevenir manipulaciones maliciosas.",
	},
	{
		Prompt: "¿Cuál de estas es una de las cuatro libertades fundamentales del software libre?",
		Options: []string{
			"La libertad de usar el programa gratis",
			"La libertad de estudiar cómo funciona el programa",
			"La libertad de competir con otros programas",
			"La libertad de crear versiones comerciales",
		},
		Correct:     "La libertad de estudiar cómo funciona el programa",
		Explanation: "Las cuatro libertades incluyen usar, estudiar, distribuir y mejorar el programa.",
	},
}
