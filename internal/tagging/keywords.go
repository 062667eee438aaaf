package tagging

// TagKeywords describes one tag of the built-in taxonomy and the keywords that select it
type TagKeywords struct {
	Name        string
	Category    string
	Color       string
	Description string
	Keywords    []string
}

// DefaultKeywords is the built-in keyword taxonomy, seeded into the tag vocabulary by `tags seed`.
var DefaultKeywords = []TagKeywords{
	// Languages
	{Name: "Python", Category: "Languages", Color: "blue", Description: "Python programming language", Keywords: []string{"python", "py", "django", "flask", "fastapi", "pandas", "numpy", "pytest"}},
	{Name: "JavaScript", Category: "Languages", Color: "yellow", Description: "JavaScript programming language", Keywords: []string{"javascript", "js", "ecmascript", "es6", "es2015", "node.js", "nodejs"}},
	{Name: "TypeScript", Category: "Languages", Color: "blue", Description: "TypeScript - typed JavaScript", Keywords: []string{"typescript", "ts", "type safety", "typed javascript"}},
	{Name: "Go", Category: "Languages", Color: "cyan", Description: "Go programming language", Keywords: []string{"golang", " go ", "go lang"}},
	{Name: "Rust", Category: "Languages", Color: "orange", Description: "Rust programming language", Keywords: []string{"rust", "cargo", "rustc"}},
	{Name: "Java", Category: "Languages", Color: "red", Description: "Java programming language", Keywords: []string{"java", "jvm", "spring", "maven", "gradle"}},
	{Name: "C++", Category: "Languages", Color: "blue", Description: "C++ programming language", Keywords: []string{"c++", "cpp", "cplusplus"}},
	{Name: "PHP", Category: "Languages", Color: "purple", Description: "PHP programming language", Keywords: []string{"php", "laravel", "symfony", "composer"}},
	{Name: "Ruby", Category: "Languages", Color: "red", Description: "Ruby programming language", Keywords: []string{"ruby", "rails", "ruby on rails", "gem"}},
	{Name: "Swift", Category: "Languages", Color: "orange", Description: "Swift programming language", Keywords: []string{"swift", "swiftui", "ios development"}},
	{Name: "Kotlin", Category: "Languages", Color: "purple", Description: "Kotlin programming language", Keywords: []string{"kotlin", "android development", "jetpack"}},
	{Name: "C#", Category: "Languages", Color: "purple", Description: "C# programming language", Keywords: []string{"c#", "csharp", ".net", "dotnet", "asp.net"}},

	// Frontend Frameworks
	{Name: "React", Category: "Frontend", Color: "cyan", Description: "React JavaScript library", Keywords: []string{"react", "reactjs", "react.js", "jsx", "react hooks", "react native"}},
	{Name: "Vue", Category: "Frontend", Color: "green", Description: "Vue.js framework", Keywords: []string{"vue", "vuejs", "vue.js", "nuxt"}},
	{Name: "Angular", Category: "Frontend", Color: "red", Description: "Angular framework", Keywords: []string{"angular", "angularjs", "ng"}},
	{Name: "Svelte", Category: "Frontend", Color: "orange", Description: "Svelte framework", Keywords: []string{"svelte", "sveltekit"}},
	{Name: "Next.js", Category: "Frontend", Color: "gray", Description: "Next.js React framework", Keywords: []string{"next.js", "nextjs", "next"}},
	{Name: "Remix", Category: "Frontend Frameworks", Color: "gray", Description: "Remix", Keywords: []string{"remix", "remix.run"}},
	{Name: "Solid", Category: "Frontend Frameworks", Color: "gray", Description: "Solid", Keywords: []string{"solidjs", "solid.js"}},
	{Name: "Astro", Category: "Frontend Frameworks", Color: "gray", Description: "Astro", Keywords: []string{"astro", "astro.build"}},

	// Backend Frameworks
	{Name: "Django", Category: "Backend", Color: "green", Description: "Django Python framework", Keywords: []string{"django", "django rest"}},
	{Name: "Flask", Category: "Backend", Color: "gray", Description: "Flask Python framework", Keywords: []string{"flask", "flask-restful"}},
	{Name: "FastAPI", Category: "Backend", Color: "teal", Description: "FastAPI Python framework", Keywords: []string{"fastapi", "fast api"}},
	{Name: "Express", Category: "Backend", Color: "gray", Description: "Express.js framework", Keywords: []string{"express", "express.js", "expressjs"}},
	{Name: "NestJS", Category: "Backend", Color: "red", Description: "NestJS framework", Keywords: []string{"nestjs", "nest.js"}},
	{Name: "Spring", Category: "Backend", Color: "green", Description: "Spring Java framework", Keywords: []string{"spring", "spring boot", "springboot"}},
	{Name: "Laravel", Category: "Backend", Color: "red", Description: "Laravel PHP framework", Keywords: []string{"laravel", "eloquent"}},
	{Name: "Rails", Category: "Backend", Color: "red", Description: "Ruby on Rails framework", Keywords: []string{"rails", "ruby on rails", "activerecord"}},

	// Cloud Platforms
	{Name: "AWS", Category: "Cloud", Color: "orange", Description: "Amazon Web Services", Keywords: []string{"aws", "amazon web services", "ec2", "s3", "lambda", "cloudformation"}},
	{Name: "Azure", Category: "Cloud", Color: "blue", Description: "Microsoft Azure", Keywords: []string{"azure", "microsoft azure", "azure devops"}},
	{Name: "GCP", Category: "Cloud", Color: "blue", Description: "Google Cloud Platform", Keywords: []string{"gcp", "google cloud", "google cloud platform"}},
	{Name: "Vercel", Category: "Cloud", Color: "gray", Description: "Vercel hosting", Keywords: []string{"vercel", "zeit"}},
	{Name: "Netlify", Category: "Cloud", Color: "teal", Description: "Netlify hosting", Keywords: []string{"netlify"}},
	{Name: "Heroku", Category: "Cloud", Color: "purple", Description: "Heroku platform", Keywords: []string{"heroku"}},
	{Name: "DigitalOcean", Category: "Cloud", Color: "blue", Description: "DigitalOcean cloud", Keywords: []string{"digitalocean", "digital ocean"}},

	// DevOps & Tools
	{Name: "Docker", Category: "DevOps", Color: "blue", Description: "Docker containers", Keywords: []string{"docker", "dockerfile", "container"}},
	{Name: "Kubernetes", Category: "DevOps", Color: "blue", Description: "Kubernetes orchestration", Keywords: []string{"kubernetes", "k8s", "kubectl", "helm"}},
	{Name: "CI/CD", Category: "DevOps", Color: "green", Description: "Continuous Integration/Deployment", Keywords: []string{"ci/cd", "continuous integration", "continuous deployment", "continuous delivery"}},
	{Name: "Jenkins", Category: "DevOps", Color: "red", Description: "Jenkins automation", Keywords: []string{"jenkins"}},
	{Name: "GitHub Actions", Category: "DevOps", Color: "gray", Description: "GitHub Actions CI/CD", Keywords: []string{"github actions", "gh actions"}},
	{Name: "GitLab CI", Category: "DevOps", Color: "orange", Description: "GitLab CI/CD", Keywords: []string{"gitlab ci", "gitlab-ci"}},
	{Name: "Terraform", Category: "DevOps", Color: "purple", Description: "Terraform IaC", Keywords: []string{"terraform", "tf", "infrastructure as code"}},
	{Name: "Ansible", Category: "DevOps", Color: "red", Description: "Ansible automation", Keywords: []string{"ansible", "playbook"}},

	// Databases
	{Name: "PostgreSQL", Category: "Databases", Color: "blue", Description: "PostgreSQL database", Keywords: []string{"postgresql", "postgres", "psql"}},
	{Name: "MySQL", Category: "Databases", Color: "blue", Description: "MySQL database", Keywords: []string{"mysql", "mariadb"}},
	{Name: "MongoDB", Category: "Databases", Color: "green", Description: "MongoDB NoSQL database", Keywords: []string{"mongodb", "mongo", "nosql"}},
	{Name: "Redis", Category: "Databases", Color: "red", Description: "Redis cache", Keywords: []string{"redis", "cache"}},
	{Name: "Elasticsearch", Category: "Databases", Color: "yellow", Description: "Elasticsearch search engine", Keywords: []string{"elasticsearch", "elastic", "elk"}},
	{Name: "SQLite", Category: "Databases", Color: "blue", Description: "SQLite database", Keywords: []string{"sqlite"}},
	{Name: "Supabase", Category: "Databases", Color: "green", Description: "Supabase backend", Keywords: []string{"supabase"}},
	{Name: "Firebase", Category: "Databases", Color: "yellow", Description: "Firebase platform", Keywords: []string{"firebase", "firestore"}},

	// AI/ML
	{Name: "TensorFlow", Category: "AI/ML", Color: "orange", Description: "TensorFlow ML framework", Keywords: []string{"tensorflow", "tf"}},
	{Name: "PyTorch", Category: "AI/ML", Color: "red", Description: "PyTorch ML framework", Keywords: []string{"pytorch", "torch"}},
	{Name: "Hugging Face", Category: "AI/ML", Color: "yellow", Description: "Hugging Face transformers", Keywords: []string{"hugging face", "transformers", "hf"}},
	{Name: "OpenAI", Category: "AI/ML", Color: "green", Description: "OpenAI and GPT", Keywords: []string{"openai", "gpt", "chatgpt", "dall-e"}},
	{Name: "LLM", Category: "AI/ML", Color: "purple", Description: "Large Language Models", Keywords: []string{"llm", "large language model", "language model"}},
	{Name: "Neural Networks", Category: "AI/ML", Color: "blue", Description: "Neural networks and deep learning", Keywords: []string{"neural network", "deep learning", "cnn", "rnn", "lstm"}},
	{Name: "NLP", Category: "AI/ML", Color: "teal", Description: "Natural Language Processing", Keywords: []string{"nlp", "natural language processing", "text processing"}},
	{Name: "Computer Vision", Category: "AI/ML", Color: "indigo", Description: "Computer vision and image processing", Keywords: []string{"computer vision", "image recognition", "object detection"}},

	// Web Technologies
	{Name: "HTML", Category: "Frontend", Color: "orange", Description: "HTML markup language", Keywords: []string{"html", "html5", "markup"}},
	{Name: "CSS", Category: "Frontend", Color: "blue", Description: "CSS styling", Keywords: []string{"css", "css3", "stylesheet"}},
	{Name: "Tailwind CSS", Category: "Frontend", Color: "cyan", Description: "Tailwind CSS framework", Keywords: []string{"tailwind", "tailwindcss"}},
	{Name: "Sass", Category: "Frontend", Color: "pink", Description: "Sass CSS preprocessor", Keywords: []string{"sass", "scss"}},
	{Name: "Webpack", Category: "Frontend", Color: "blue", Description: "Webpack bundler", Keywords: []string{"webpack", "bundler"}},
	{Name: "Vite", Category: "Frontend", Color: "purple", Description: "Vite build tool", Keywords: []string{"vite", "vitejs"}},
	{Name: "GraphQL", Category: "Web", Color: "pink", Description: "GraphQL query language", Keywords: []string{"graphql", "gql", "apollo"}},
	{Name: "REST", Category: "Web", Color: "blue", Description: "REST APIs", Keywords: []string{"rest", "restful", "rest api"}},
	{Name: "WebAssembly", Category: "Web", Color: "purple", Description: "WebAssembly", Keywords: []string{"webassembly", "wasm"}},

	// Mobile
	{Name: "React Native", Category: "Mobile", Color: "cyan", Description: "React Native framework", Keywords: []string{"react native", "rn"}},
	{Name: "Flutter", Category: "Mobile", Color: "blue", Description: "Flutter framework", Keywords: []string{"flutter", "dart"}},
	{Name: "Ionic", Category: "Mobile", Color: "blue", Description: "Ionic framework", Keywords: []string{"ionic"}},
	{Name: "SwiftUI", Category: "Mobile", Color: "blue", Description: "SwiftUI framework", Keywords: []string{"swiftui"}},
	{Name: "Jetpack Compose", Category: "Mobile", Color: "green", Description: "Jetpack Compose UI", Keywords: []string{"jetpack compose", "compose"}},

	// Testing
	{Name: "Jest", Category: "Testing", Color: "gray", Description: "Jest", Keywords: []string{"jest", "testing"}},
	{Name: "Pytest", Category: "Testing", Color: "gray", Description: "Pytest", Keywords: []string{"pytest", "python testing"}},
	{Name: "Cypress", Category: "Testing", Color: "gray", Description: "Cypress", Keywords: []string{"cypress", "e2e testing"}},
	{Name: "Selenium", Category: "Testing", Color: "gray", Description: "Selenium", Keywords: []string{"selenium", "webdriver"}},

	// Other
	{Name: "Git", Category: "Tools", Color: "orange", Description: "Git version control", Keywords: []string{"git", "github", "gitlab", "version control"}},
	{Name: "VS Code", Category: "Tools", Color: "blue", Description: "Visual Studio Code", Keywords: []string{"vscode", "visual studio code"}},
	{Name: "Linux", Category: "Tools", Color: "yellow", Description: "Linux operating system", Keywords: []string{"linux", "ubuntu", "debian", "centos"}},
	{Name: "Security", Category: "Tools", Color: "red", Description: "Security and cybersecurity", Keywords: []string{"security", "vulnerability", "encryption", "authentication"}},
	{Name: "Performance", Category: "Tools", Color: "yellow", Description: "Performance optimization", Keywords: []string{"performance", "optimization", "speed", "latency"}},
	{Name: "Accessibility", Category: "Tools", Color: "blue", Description: "Web accessibility", Keywords: []string{"accessibility", "a11y", "wcag"}},
}
