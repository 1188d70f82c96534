package classify

import "strings"

const systemPrompt = `You are an analyst that classifies chatbot conversations.
Return STRICT JSON only (no commentary). Be concise, evidence-based, and avoid speculation.`

// The user prompt embeds the transcript plus the full output-schema
// contract. The no-bare-negatives rule ("none", "none-needed") is a hard
// requirement on the model-facing schema: aggregation relies on every
// free-text value being specific enough to bucket.
const userPromptHeader = `You are given a single conversation transcript between a user and a support chatbot.
Goal: analyze what the user was trying to accomplish, whether the bot solved it, and provide detailed analysis of failures.

CRITICAL: NEVER use generic responses like "none", "none-needed", or "no". Always provide specific, concrete, actionable information. If something doesn't apply, explain WHY it doesn't apply in specific terms (e.g. "bot-handled-perfectly" instead of "none-needed").

Return STRICT JSON with this schema (do not add fields):
{
  "topics": ["short, kebab-case tags"],
  "user_tasks_attempted": ["specific task the user wanted to complete"],
  "solved": true/false,
  "why_unsolved": ["detailed reason why the task failed"],
  "needs_human": true/false,
  "capabilities": ["what-the-bot-did-well"],
  "limitations": ["specific capabilities the bot lacks"],
  "failure_category": "missing-info|requires-human|feature-not-supported|bot-error|user-abandoned|incomplete-conversation|other",
  "missing_feature": "specific feature/functionality that the bot lacks (if feature-not-supported)",
  "feature_category": "account-management|billing|campaign-control|technical-support|integration|reporting|verification|other",
  "specific_improvement_needed": "concrete action item to fix this type of failure",
  "examples": [{"speaker": "user|bot", "quote": "key quote showing the issue"}],
  "success_patterns": ["patterns that led to success if solved"],
  "demonstrated_skills": ["specific skills the bot showed"],
  "user_satisfaction_indicators": ["signs the user was satisfied if solved"],
  "conversation_flow": ["key conversation stages or transitions"],
  "escalation_triggers": ["what caused user to ask for human help"],
  "error_patterns": ["specific error messages or technical issues"],
  "user_emotion": "frustrated|satisfied|neutral|confused|grateful",
  "conversation_complexity": "simple|moderate|complex",
  "feature_priority_score": 1-5,
  "improvement_effort": "low|medium|high"
}

Guidelines:
- "user_tasks_attempted": be specific (e.g. "reset password", "get refund"). If the user never made a request, use ["no-user-request"].
- "why_unsolved": explain exactly why it failed (e.g. "bot cannot access user account database").
- "missing_feature": when failure_category is "feature-not-supported", name exactly what is missing (e.g. "refund processing system", "password reset workflow").
- "specific_improvement_needed": a concrete action (e.g. "integrate with billing system API"). If no improvement is needed, explain WHY (e.g. "bot-handled-perfectly").
- "escalation_triggers": if no escalation occurred, explain why (e.g. ["bot-solved-problem", "user-satisfied"]).
- "error_patterns": if no errors occurred, explain why (e.g. ["system-functioning-perfectly"]).
- "feature_priority_score": 1 = low impact, 5 = critical blocker.
- "improvement_effort": low = UI change, medium = API integration, high = new system.

Transcript (UTC times):
----------------
`

const userPromptFooter = `
----------------

FINAL REMINDER: NEVER use "none", "none-needed", or "no" in any field. Always provide specific, descriptive information or explain why something doesn't apply.`

func buildMessages(transcript string) []chatMessage {
	var b strings.Builder
	b.WriteString(userPromptHeader)
	b.WriteString(transcript)
	b.WriteString(userPromptFooter)
	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}
