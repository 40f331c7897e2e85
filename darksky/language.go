package darksky

import (
	"golang.org/x/text/language"
)

var (
	matchable []Language
	matcher   language.Matcher
)

func init() {
	tags := make([]language.Tag, 0, len(allLanguages))
	// English first so it wins when nothing matches.
	for _, l := range append([]Language{LanguageEn}, allLanguages...) {
		tag, err := language.Parse(string(l))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		matchable = append(matchable, l)
	}
	matcher = language.NewMatcher(tags)
}

// MatchLanguage picks the supported summary language closest to tag,
// defaulting to English.
func MatchLanguage(tag language.Tag) Language {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(matchable) {
		return LanguageEn
	}
	return matchable[idx]
}

// MatchAcceptLanguage picks the supported language for an Accept-Language
// header value.
func MatchAcceptLanguage(header string) Language {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return LanguageEn
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(matchable) {
		return LanguageEn
	}
	return matchable[idx]
}
