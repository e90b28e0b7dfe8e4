package assist

import "strings"

type chatRule struct {
	keywords []string
	reply    string
}

// Rules are checked in order; the first rule with a matching keyword answers.
var chatRules = []chatRule{
	{
		keywords: []string{"password", "login"},
		reply:    "For password reset issues, please visit our self-service portal or contact IT support at helpdesk@wajir.go.ke. For immediate assistance, you can also reach out to Ali Salat at ali.salat@wajir.go.ke.",
	},
	{
		keywords: []string{"email", "outlook"},
		reply:    "For email-related issues with your @wajir.go.ke account, please check your internet connection first. If the problem persists, contact our IT team or submit a support ticket through this system.",
	},
	{
		keywords: []string{"printer", "print"},
		reply:    "For printer issues, first check if the printer is powered on and connected. Ensure you have the correct drivers installed. If you need further assistance, please submit a hardware support ticket.",
	},
	{
		keywords: []string{"network", "internet", "wifi"},
		reply:    "For network connectivity issues, please check your ethernet cable or WiFi connection. If you're still experiencing problems, our network team can assist you. Please submit a network support ticket.",
	},
	{
		keywords: []string{"software", "application", "program"},
		reply:    "For software-related issues, please specify which application you're having trouble with. You can find approved county software in our software catalog or submit a software support ticket for assistance.",
	},
	{
		keywords: []string{"ticket", "support"},
		reply:    "To submit a support ticket, please use the ticket form on this page. Make sure to provide detailed information about your issue, including your department and contact details for faster resolution.",
	},
	{
		keywords: []string{"emergency", "urgent"},
		reply:    "For emergency ICT support, please contact us immediately at helpdesk@wajir.go.ke or reach out to our Director ICT, Mohamed Shahid at mohamed.shahid@wajir.go.ke. We provide 24/7 support for critical issues.",
	},
}

const defaultChatReply = "Thank you for contacting Wajir Helpdesk AI. For specific technical issues, I recommend submitting a detailed support ticket. For immediate assistance, please contact our support team at helpdesk@wajir.go.ke or call our ICT department during business hours (8AM-5PM)."

// ChatReply answers a help-chat message by keyword.
func ChatReply(message string) string {
	text := strings.ToLower(message)
	for _, rule := range chatRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.reply
			}
		}
	}
	return defaultChatReply
}
