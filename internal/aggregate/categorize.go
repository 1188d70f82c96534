package aggregate

import "strings"

// Keyword tables that fold free-text failure reasons and user tasks into
// report buckets. Like problemRules, evaluation is first-match-wins and
// the order is part of the contract: earlier buckets win keyword
// overlaps. Patterns are deliberately broad; "other" is the bucket of
// last resort and its contents get their own breakdown table.
var failureReasonRules = []categoryRule{
	{Name: "incomplete-conversation", Keywords: []string{
		"incomplete-conversation", "no user input", "no user request", "no user response",
		"user never responded", "conversation abandoned", "bot only", "no user interaction",
		"user-abandoned-conversation", "no-escalation-needed", "conversation-abandoned",
	}},
	{Name: "successful-no-improvement", Keywords: []string{
		"bot-handled-perfectly", "user-request-fulfilled", "conversation-successful",
		"bot-solved-problem", "user-satisfied", "conversation-completed-successfully",
		"system-functioning-perfectly", "all-requests-successful", "no-technical-issues",
		"no-improvement-needed",
	}},
	{Name: "missing-user-info", Keywords: []string{
		"missing-user-info", "user did not provide", "user never provided",
		"missing information", "incomplete information", "insufficient details",
		"not provided", "not given", "missing", "incomplete", "insufficient",
	}},
	{Name: "requires-human-intervention", Keywords: []string{
		"requires-human", "requires human", "needs human", "human intervention",
		"live agent", "human support", "escalation", "contact support", "human", "agent",
	}},
	{Name: "feature-not-available", Keywords: []string{
		"feature-not-supported", "not supported", "cannot do", "lacks capability",
		"not implemented", "no such feature", "does not support", "unable to",
		"not possible", "cannot", "unable", "not available",
	}},
	{Name: "technical-limitations", Keywords: []string{
		"system limitation", "api limitation", "database access", "permission denied",
		"access restricted", "system error", "technical", "api", "database",
		"bug", "crash", "broken", "error", "exception", "failure",
	}},
	{Name: "policy-restrictions", Keywords: []string{
		"policy", "not allowed", "restricted", "forbidden", "compliance", "regulatory",
	}},
	{Name: "user-abandoned", Keywords: []string{
		"user left", "user abandoned", "conversation ended", "user stopped",
		"no response", "abandoned", "goodbye",
	}},
	{Name: "bot-error", Keywords: []string{
		"bot error", "parse error", "processing error", "bot mistake",
		"wrong information", "incorrect", "invalid", "mistake",
	}},
	{Name: "information-provided", Keywords: []string{
		"information provided", "details given", "user provided", "completed form",
		"submitted", "filled out",
	}},
	{Name: "account-issues", Keywords: []string{
		"account", "login", "password", "username", "email", "profile",
		"sign in", "sign up", "register", "authentication", "verify",
	}},
	{Name: "billing-issues", Keywords: []string{
		"billing", "payment", "charge", "price", "fee", "invoice",
		"refund", "credit", "subscription",
	}},
	{Name: "campaign-issues", Keywords: []string{
		"campaign", "advertisement", "targeting", "audience", "budget",
		"performance", "metrics", "analytics",
	}},
}

var userTaskRules = []categoryRule{
	{Name: "account-management", Keywords: []string{
		"password reset", "account access", "account", "login", "password",
		"username", "email", "profile", "sign in", "sign up", "register",
		"authentication", "verify", "access", "permission",
	}},
	{Name: "billing-support", Keywords: []string{
		"refund", "payment", "billing", "invoice", "charge", "subscription",
		"cost", "pricing", "credit", "plan", "fee", "bill",
	}},
	{Name: "campaign-management", Keywords: []string{
		"campaign", "ad creation", "targeting", "budget", "ad set", "creative",
		"advertisement", "audience", "performance", "metrics", "analytics", "conversion",
	}},
	{Name: "technical-support", Keywords: []string{
		"bug", "error", "issue", "problem", "not working", "broken", "fix",
		"troubleshoot", "technical", "crash", "slow", "glitch",
	}},
	{Name: "policy-inquiry", Keywords: []string{
		"policy", "guidelines", "rules", "allowed", "permitted", "compliance",
		"am i allowed", "is it ok",
	}},
	{Name: "feature-request", Keywords: []string{
		"is it possible", "add feature", "new capability", "enhancement",
		"improvement", "feature", "capability", "customization",
	}},
	{Name: "form-completion", Keywords: []string{
		"form", "fill", "complete", "submit", "upload", "attach", "document",
	}},
	{Name: "status-check", Keywords: []string{
		"status", "check", "confirm", "look up", "track", "monitor", "progress",
	}},
	{Name: "general-inquiry", Keywords: []string{
		"how to", "what is", "information", "help", "question", "guide",
		"tutorial", "explain", "tell me", "show me",
	}},
}

func categorizeBy(rules []categoryRule, label string) string {
	lower := strings.ToLower(strings.TrimSpace(label))
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Name
			}
		}
	}
	return CategoryOther
}

// CategorizeFailureReason buckets one why_unsolved entry.
func CategorizeFailureReason(reason string) string {
	return categorizeBy(failureReasonRules, reason)
}

// CategorizeUserTask buckets one user_tasks_attempted entry.
func CategorizeUserTask(task string) string {
	return categorizeBy(userTaskRules, task)
}
