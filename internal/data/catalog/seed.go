package catalog

import "github.com/adamn1225/adam-noahs-stuff/internal/domain/project"

// SeedProjects is the starter catalog written by `portfolioctl seed`.
func SeedProjects() []project.Record {
	return []project.Record{
		{
			ID:          "premier-watchdog",
			Title:       "Premier Watchdog",
			Description: "Advanced IP brand protection platform with automated eBay monitoring, VeRO reporting, and intelligent alert system. Scans thousands of listings daily to protect trademark rights.",
			Image:       "/app_portfolio/watchdog-ip-brand-protection.png",
			Tags:        []string{"Go", "Next.js", "PostgreSQL", "eBay API", "Railway"},
			Category:    project.CategoryBrandProtection,
		},
		{
			ID:          "premier-watchdog-scanner",
			Title:       "Premier Watchdog Scanner",
			Description: "Real-time automated scanner engine with rate limiting and bad actor detection. Monitors eBay listings 24/7 for trademark violations.",
			Image:       "/app_portfolio/premier_watchdog_scanner.png",
			Tags:        []string{"Go", "Cron Jobs", "API Integration", "Railway"},
			Category:    project.CategoryBrandProtection,
		},
		{
			ID:          "premier-watchdog-email",
			Title:       "Email Editor System",
			Description: "Drag-and-drop email template editor for VeRO takedown notices with dynamic variable support and professional formatting.",
			Image:       "/app_portfolio/premier-watchdog-email-editor.png",
			Tags:        []string{"React", "Email Templates", "WYSIWYG"},
			Category:    project.CategoryBrandProtection,
		},
		{
			ID:          "simtrain-dashboard",
			Title:       "SimTrain Sales Dashboard",
			Description: "Comprehensive sales training platform dashboard with real-time analytics, progress tracking, and performance metrics for sales teams.",
			Image:       "/app_portfolio/simtrain-sales-training-dashboard.png",
			Tags:        []string{"React", "TypeScript", "Analytics", "Dashboard"},
			Category:    project.CategorySaaS,
		},
		{
			ID:          "simtrain-user-dash",
			Title:       "SimTrain User Portal",
			Description: "Interactive user dashboard for sales representatives to track their training progress, view challenges, and improve their skills.",
			Image:       "/app_portfolio/simtrain-sales-training-user-dashh.png",
			Tags:        []string{"Next.js", "TypeScript", "User Analytics"},
			Category:    project.CategorySaaS,
		},
		{
			ID:          "simtrain-ai-call",
			Title:       "AI-Powered Customer Simulator",
			Description: "Advanced AI customer simulation for realistic sales training scenarios. Uses natural language processing for dynamic conversations.",
			Image:       "/app_portfolio/simtrain-ai-customer-call.png",
			Tags:        []string{"AI/ML", "OpenAI", "Real-time Audio", "NLP"},
			Category:    project.CategoryAI,
		},
		{
			ID:          "screensense",
			Title:       "ScreenSense Video Analyzer",
			Description: "AI-powered video analysis tool that extracts insights, generates transcripts, and provides intelligent summaries of video content.",
			Image:       "/app_portfolio/screensense-video-analyzer.png",
			Tags:        []string{"AI/ML", "Video Processing", "Computer Vision", "NLP"},
			Category:    project.CategoryVideoAnalysis,
		},
		{
			ID:          "ai-chatbot",
			Title:       "AI Chatbot Interface",
			Description: "Modern conversational AI interface with streaming responses, context awareness, and beautiful UX design.",
			Image:       "/app_portfolio/ai-chat-bot.png",
			Tags:        []string{"React", "AI/ML", "WebSockets", "OpenAI"},
			Category:    project.CategoryAI,
		},
	}
}
