package view

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SeparatedContent is a non-forwarded body split into the message proper and an
// optional trailing signature or marketing footer.
type SeparatedContent struct {
	MainBody  string
	Signature *string
}

const (
	nameLookback      = 5
	marketingLookback = 20
	minSignatureLen   = 5
	maxNameWords      = 4
	maxNameLen        = 40
	maxFooterLineLen  = 30
)

var (
	delimiterRegex = regexp.MustCompile(`^-{2,}\s*$`)
	phoneRegex     = regexp.MustCompile(`(?i)^(?:(?:tel|phone|mobile|mob|cell|fax|office|direct|[mtpfo])\.?\s*:?\s*)?\+?[\d\s().\-]{7,}(?:\s*(?:ext\.?|x)\s*\d+)?$`)
	domainRegex    = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?[a-z0-9][a-z0-9-]*(?:\.[a-z0-9-]+)*\.(?:com|net|org|io|co|ai|app|dev|us|uk|de|fr|ca|au|info|biz|me)(?:/\S*)?$`)
	socialRegex    = regexp.MustCompile(`(?i)^(?:[\s|•·,-]*(?:(?:https?://)?(?:www\.)?(?:linkedin|twitter|facebook|instagram|youtube|tiktok|github)(?:\.com)?(?:/\S*)?|(?:https?://)?x\.com(?:/\S*)?))+[\s|•·,-]*$`)
	imageOnlyRegex = regexp.MustCompile(`^!\[[^\]]*\]\([^)\s]+\)$`)

	footerRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)unsubscribe`),
		regexp.MustCompile(`(?i)^sent (?:from|with|via) (?:my )?\S`),
		regexp.MustCompile(`(?i)\b(?:app store|google play|get the app|download the app|get it on)\b`),
		regexp.MustCompile(`(?i)(?:©|\(c\)\s*\d{4}|\bcopyright\b)`),
		regexp.MustCompile(`(?i)^(?:view|open) (?:it |this )?in \S`),
		regexp.MustCompile(`(?i)\bview (?:this (?:email|message) )?in (?:your |a )?(?:web )?browser\b`),
		regexp.MustCompile(`(?i)\bturn off (?:these |email |push )?notifications\b`),
		regexp.MustCompile(`(?i)\b(?:manage|update) (?:your )?(?:email |notification |subscription )?(?:preferences|settings)\b`),
		regexp.MustCompile(`(?i)\byou(?:'re| are)? receiv(?:ed|ing) this\b`),
		regexp.MustCompile(`(?i)\bprivacy policy\b`),
		regexp.MustCompile(`(?i)\b(?:this (?:e-?mail|message) (?:and any attachments )?(?:is|are|may be) confidential|confidentiality notice)\b`),
	}

	marketingRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:view|open) (?:it |this )?in \S`),
		regexp.MustCompile(`(?i)\b(?:app store|google play|get the app|download the app|get it on)\b`),
		regexp.MustCompile(`(?i)\bturn off (?:these |email |push )?notifications\b`),
	}

	greetingWords = map[string]bool{
		"hi": true, "hello": true, "hey": true, "dear": true, "thanks": true,
		"regards": true, "best": true, "sincerely": true,
	}
)

// SeparateSignature splits s into the message body and a trailing signature block.
// When no signature is found it returns s unchanged as MainBody.
func SeparateSignature(s string) SeparatedContent {
	lines := strings.Split(s, "\n")
	start := signatureStart(lines)
	if start <= 0 {
		return SeparatedContent{MainBody: s}
	}

	signature := strings.TrimSpace(strings.Join(lines[start:], "\n"))
	if utf8.RuneCountInString(signature) < minSignatureLen {
		return SeparatedContent{MainBody: s}
	}
	return SeparatedContent{
		MainBody:  strings.TrimSpace(strings.Join(lines[:start], "\n")),
		Signature: &signature,
	}
}

// signatureStart returns the index of the first signature line, or -1.
func signatureStart(lines []string) int {
	trigger := -1
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && isSignatureLine(line) {
			trigger = i
			break
		}
	}
	if trigger < 0 {
		return -1
	}

	triggerLine := strings.TrimSpace(lines[trigger])
	if delimiterRegex.MatchString(triggerLine) {
		return trigger
	}

	marketing := isMarketingFooter(triggerLine)
	lookback := nameLookback
	if marketing {
		lookback = marketingLookback
	}

	start := trigger
	for j := trigger - 1; j >= 0 && j >= trigger-lookback; j-- {
		line := strings.TrimSpace(lines[j])
		if !extendsSignature(line, marketing) {
			break
		}
		start = j
		if delimiterRegex.MatchString(line) {
			break
		}
	}
	return start
}

// extendsSignature reports whether line, above the trigger, still belongs to the
// signature. A blank line ends the lookback.
func extendsSignature(line string, marketing bool) bool {
	if line != "" && isSignatureLine(line) {
		return true
	}
	if line == "" {
		return false
	}
	if marketing {
		return imageOnlyRegex.MatchString(line) ||
			(utf8.RuneCountInString(line) < maxFooterLineLen && !strings.HasSuffix(line, ".") &&
				!strings.HasSuffix(line, "!") && !strings.HasSuffix(line, "?"))
	}
	return looksLikeName(line)
}

// isSignatureLine reports whether a trimmed line looks like part of a signature or
// an automated footer.
func isSignatureLine(line string) bool {
	if delimiterRegex.MatchString(line) || imageOnlyRegex.MatchString(line) {
		return true
	}
	if isPhoneLine(line) || domainRegex.MatchString(line) || socialRegex.MatchString(line) {
		return true
	}
	for _, re := range footerRegexes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// isPhoneLine requires at least seven digits so dates and prices do not count.
func isPhoneLine(line string) bool {
	if !phoneRegex.MatchString(line) {
		return false
	}
	digits := 0
	for _, r := range line {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

func isMarketingFooter(line string) bool {
	for _, re := range marketingRegexes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// looksLikeName matches short lines such as "Jane Doe" or "Acme Inc" that sit
// above contact details.
func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > maxNameWords {
		return false
	}
	if utf8.RuneCountInString(line) >= maxNameLen {
		return false
	}
	if last, _ := utf8.DecodeLastRuneInString(line); strings.ContainsRune(".!?;:", last) {
		return false
	}
	normalized := strings.ToLower(strings.Trim(line, ",.!-— "))
	if normalized == "thank you" || greetingWords[normalized] {
		return false
	}
	return !greetingWords[strings.ToLower(strings.Trim(words[0], ",.!"))]
}
