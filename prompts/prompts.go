// Package prompts builds the per-stage prompts deterministically from the
// target language and the outputs of previous stages.
package prompts

import "fmt"

// TranslationSystem returns the system prompt for the translation stage.
func TranslationSystem(targetLanguage string) string {
	return fmt.Sprintf(`1. Read the provided text carefully, preserving all formatting, markdown, and structure exactly as they appear.
2. Identify any block quotes and code blocks.
3. Do not translate text in block quotes or in code blocks (including text within code blocks).
4. Translate everything else into %[1]s.
5. Maintain the original formatting, markdown, and structure in your output.
6. Provide a natural-sounding translation rather than a word-for-word one.
7. For idioms, colloquialisms, or slang, render them in an equivalent, natural way in %[1]s whenever possible.
8. If there isn't a direct or natural translation for a particular term or phrase, keep it in the original language and surround it with quotes if necessary.
9. Ensure that technical terms or jargon remain accurate; if there's no suitable translation, keep the original term.
10. Strive for fluid, native-sounding prose that retains the tone and intent of the original text.`, targetLanguage)
}

// TranslationUser returns the user prompt for the translation stage, which
// is the source text itself.
func TranslationUser(text string) string {
	return text
}

// EditingSystem returns the system prompt for the editing stage.
func EditingSystem(targetLanguage string) string {
	return fmt.Sprintf(`1. Carefully read the translated text alongside the original text in its entirety.
2. Compare both texts to ensure the translation accurately reflects the original meaning.
3. Correct any grammatical errors you find in the %[1]s text.
4. Adjust phrasing to make it sound natural and fluent for %[1]s speakers, making sure idioms and expressions are culturally appropriate.
5. Preserve the original tone, nuance, and style, including any formatting, markdown, and structure.
6. Avoid adding new information or altering the core meaning.
7. Ensure the final result doesn't feel machine-translated but remains faithful to the source.
8. Make only changes that genuinely improve the text's quality in %[1]s.
9. Don't be too literal. If there isn't a direct translation, provide a natural-sounding translation.
10. If the text contains idioms or colloquialisms, translate them into the target language while maintaining their original meaning.
11. If the text contains technical terms or jargon, ensure that the translation is accurate and appropriate for the target audience; if there isn't a natural translation, keep it in the original language.`, targetLanguage)
}

// EditingUser returns the user prompt for the editing stage.
func EditingUser(originalText, translatedText, targetLanguage string) string {
	return fmt.Sprintf(`# ORIGINAL TEXT
%s

# TRANSLATED TEXT
%s

Please review and improve the translated text to make it natural and accurate in %s.
Return ONLY the improved translated text without explanations or comments.`, originalText, translatedText, targetLanguage)
}

// CritiqueSystem returns the system prompt for the critique-generation stage.
func CritiqueSystem(targetLanguage string) string {
	return fmt.Sprintf(`You are a highly critical professional translator and linguistic expert specializing in %[1]s.
Your task is to ruthlessly critique the translation by:

1. Meticulously comparing the translated text with the original, identifying ANY inaccuracies, mistranslations, or omissions
2. Highlighting nuances, cultural references, or idioms that were lost or mistranslated
3. Scrutinizing for grammatical errors, awkward phrasing, or unnatural expressions in %[1]s
4. Checking for inconsistencies in tone, style, or register compared to the original
5. Verifying that technical terms are translated accurately and consistently
6. Ensuring no content was accidentally skipped or added
7. Finding places where the translation sounds machine-like or overly literal

Be extremely thorough and critical in your assessment. Do not accept mediocre translations.
List specific issues and suggestions for improvement, organized by severity and category.
Your critique should be detailed enough for another translator to address all the issues.

Your goal is to help create a perfect translation that reads as if originally written in %[1]s while being 100%% faithful to the source.`, targetLanguage)
}

// CritiqueUser returns the user prompt for the critique-generation stage.
// It always pairs the original source with the current draft.
func CritiqueUser(originalText, translatedText string) string {
	return fmt.Sprintf(`# ORIGINAL TEXT
%s

# CURRENT TRANSLATION
%s

Please critique this translation mercilessly and provide detailed feedback on what needs to be improved.
Format your critique as a structured list of issues, organized by severity and category.
Include specific suggestions for how to fix each issue.`, originalText, translatedText)
}

// FeedbackSystem returns the system prompt for the critique-apply stage.
func FeedbackSystem(targetLanguage string) string {
	return fmt.Sprintf(`You are a master translator and editor specializing in %[1]s.
Your task is to improve a translation based on detailed critique feedback.

1. Carefully read the original text, current translation, and the critique feedback
2. Address ALL issues identified in the critique
3. Apply the specific suggestions for improvement
4. Ensure the translation is accurate, natural-sounding, and faithful to the original
5. Preserve all formatting, markdown, and structure of the original text
6. Make sure the final text reads as if it were originally written in %[1]s

Do not ignore any of the critique points. Every issue identified must be addressed in your improved version.`, targetLanguage)
}

// FeedbackUser returns the user prompt for the critique-apply stage.
func FeedbackUser(originalText, translatedText, critiqueFeedback string) string {
	return fmt.Sprintf(`# ORIGINAL TEXT
%s

# CURRENT TRANSLATION
%s

# CRITIQUE FEEDBACK
%s

Please address ALL issues identified in the critique and provide an improved translation.
Return ONLY the improved translated text without explanations or comments.`, originalText, translatedText, critiqueFeedback)
}

// FrontmatterSystem returns the system prompt for translating frontmatter
// fields.
func FrontmatterSystem(targetLanguage string) string {
	return fmt.Sprintf(`You are a professional translator. Translate the following frontmatter fields to %s.
Each field is in the format "field_name: content". Translate ONLY the content, not the field names.
Return the translated content in the exact same format, preserving all field names.`, targetLanguage)
}

// FrontmatterUser returns the user prompt for translating frontmatter
// fields, which is the field block itself.
func FrontmatterUser(fieldsBlock string) string {
	return fieldsBlock
}
