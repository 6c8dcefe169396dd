package generate

import "site-cloner/pkg/models"

// frameworkSpec carries the static, per-framework generation metadata:
// the prompt persona, the dependency list attached to every result, the
// build commands, and the user-facing setup instructions.
type frameworkSpec struct {
	displayName   string
	persona       string
	guidance      string
	dependencies  []string
	buildCommands []string
	instructions  string
}

var frameworkSpecs = map[models.Framework]frameworkSpec{
	models.FrameworkNextJS: {
		displayName: "Next.js",
		persona:     "You are an expert Next.js developer. You produce complete, modern Next.js 14 projects using the App Router, TypeScript, and Tailwind CSS.",
		guidance: "Recreate the analyzed website as a Next.js project. Use the app/ directory structure " +
			"(app/layout.tsx, app/page.tsx, app/globals.css) plus tailwind.config.ts and package.json. " +
			"Break repeated page sections into components under components/.",
		dependencies:  []string{"next", "react", "react-dom", "typescript", "@types/react", "@types/node", "tailwindcss"},
		buildCommands: []string{"npm install", "npm run dev"},
		instructions:  "Next.js project generated. Run 'npm install' and then 'npm run dev' to start the development server.",
	},
	models.FrameworkReact: {
		displayName: "React",
		persona:     "You are an expert React developer. You produce complete Create React App projects with clean component structure.",
		guidance: "Recreate the analyzed website as a React project. Include src/App.tsx, src/index.tsx, " +
			"src/App.css, public/index.html, and package.json. Split distinct page sections into components under src/components/.",
		dependencies:  []string{"react", "react-dom", "react-scripts", "@types/react", "@types/react-dom"},
		buildCommands: []string{"npm install", "npm start"},
		instructions:  "React project generated. Run 'npm install' and then 'npm start' to start the development server.",
	},
	models.FrameworkVue: {
		displayName: "Vue.js",
		persona:     "You are an expert Vue.js developer. You produce complete Vue 3 projects built with Vite and TypeScript.",
		guidance: "Recreate the analyzed website as a Vue 3 project. Include src/App.vue, src/main.ts, " +
			"index.html, vite.config.ts, and package.json. Use single-file components under src/components/.",
		dependencies:  []string{"vue", "@vitejs/plugin-vue", "vite", "typescript"},
		buildCommands: []string{"npm install", "npm run dev"},
		instructions:  "Vue.js project generated. Run 'npm install' and then 'npm run dev' to start the development server.",
	},
	models.FrameworkWordPress: {
		displayName: "WordPress",
		persona:     "You are an expert WordPress theme developer. You produce complete classic themes following the WordPress template hierarchy.",
		guidance: "Recreate the analyzed website as a WordPress theme. Include style.css with a valid theme " +
			"header, index.php, header.php, footer.php, and functions.php with proper enqueue calls.",
		dependencies:  []string{},
		buildCommands: []string{"Upload theme to wp-content/themes/", "Activate in WordPress admin"},
		instructions:  "WordPress theme generated. Upload the theme folder to wp-content/themes/ and activate it from the WordPress admin.",
	},
	models.FrameworkLaravel: {
		displayName: "Laravel",
		persona:     "You are an expert Laravel developer. You produce complete Laravel applications using Blade templates.",
		guidance: "Recreate the analyzed website as a Laravel application. Include routes/web.php, " +
			"resources/views/welcome.blade.php with supporting partials, and public/css/app.css.",
		dependencies:  []string{},
		buildCommands: []string{"composer install", "php artisan serve"},
		instructions:  "Laravel project generated. Run 'composer install' and then 'php artisan serve' to start the application.",
	},
	models.FrameworkPHP: {
		displayName: "PHP",
		persona:     "You are an expert PHP developer. You produce clean procedural PHP sites with shared includes.",
		guidance: "Recreate the analyzed website as a plain PHP site. Include index.php, " +
			"includes/header.php, includes/footer.php, and css/style.css.",
		dependencies:  []string{},
		buildCommands: []string{"Start local server: php -S localhost:8000"},
		instructions:  "PHP site generated. Start a local server with 'php -S localhost:8000' and open it in a browser.",
	},
}

// staticInstructions is the fixed result text for the model-free variant.
const staticInstructions = "Static HTML/CSS/JS website ready to deploy. Open index.html in a web browser."
