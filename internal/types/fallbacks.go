package types

// Fallback values substituted by the gateway when a tool call fails.
// Panels render them like any other result.

func FallbackJDAnalysis(lang Language) JDAnalysis {
	return JDAnalysis{
		Summary:    lang.Pick("Không thể phân tích JD. Vui lòng thử lại.", "Could not analyze JD."),
		Skills:     []string{},
		Experience: lang.Pick("Không xác định", "Unknown"),
		Salary:     lang.Pick("Thỏa thuận", "Negotiable"),
	}
}

func FallbackJobPost(lang Language) string {
	return lang.Pick("Lỗi khi tạo nội dung.", "Error generating post.")
}

func FallbackCVScore() CVScore {
	return CVScore{
		Score:       0,
		Analysis:    "Error processing CV",
		Status:      CVReview,
		SkillsMatch: []string{},
	}
}

func FallbackOnboardingPlan() OnboardingPlan {
	return OnboardingPlan{}
}

// FallbackWelcomeEmail is empty; the panel shows nothing.
func FallbackWelcomeEmail() string {
	return ""
}

func FallbackChatReply(lang Language) string {
	return lang.Pick("Hệ thống đang quá tải. Vui lòng thử lại sau.", "I am currently experiencing high traffic. Please try again.")
}

// EmptyChatReply replaces a successful but blank model reply.
const EmptyChatReply = "Sorry, I couldn't understand that."

func FallbackMarketBenchmark(lang Language) MarketBenchmark {
	return MarketBenchmark{
		Text:    lang.Pick("Không thể lấy dữ liệu thực tế lúc này.", "Could not fetch real-time data."),
		Sources: []Source{},
	}
}

func FallbackSentiment(lang Language) SentimentResult {
	return SentimentResult{
		RiskLevel:   RiskMedium,
		Score:       50,
		Summary:     lang.Pick("Không thể phân tích cảm xúc.", "Could not analyze sentiment."),
		ActionItems: []string{},
	}
}
