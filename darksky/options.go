package darksky

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Block names a section of the forecast response that can be excluded from
// a request to save bandwidth.
type Block string

// Blocks of a forecast response.
const (
	BlockCurrently Block = "currently" // current conditions
	BlockMinutely  Block = "minutely"  // next hour, minute by minute
	BlockHourly    Block = "hourly"    // next 48 hours, or 168 when extended
	BlockDaily     Block = "daily"     // next week, day by day
	BlockAlerts    Block = "alerts"    // severe weather alerts
	BlockFlags     Block = "flags"     // request metadata
)

var allBlocks = []Block{BlockCurrently, BlockMinutely, BlockHourly, BlockDaily, BlockAlerts, BlockFlags}

// ParseBlock parses a block name.
func ParseBlock(s string) (Block, error) {
	for _, b := range allBlocks {
		if strings.EqualFold(s, string(b)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown block %q", s)
}

// Unit selects the unit system of the response. The API defaults to Us.
type Unit string

// Unit systems accepted by the units parameter.
const (
	UnitAuto Unit = "auto" // chosen from the location
	UnitCa   Unit = "ca"   // Si, with wind speed in km/h
	UnitSi   Unit = "si"   // metric, wind speed in m/s
	UnitUk2  Unit = "uk2"  // Si, with distances in miles and wind speed in mph
	UnitUs   Unit = "us"   // imperial
)

var allUnits = []Unit{UnitAuto, UnitCa, UnitSi, UnitUk2, UnitUs}

// ParseUnit parses a unit system name.
func ParseUnit(s string) (Unit, error) {
	for _, u := range allUnits {
		if strings.EqualFold(s, string(u)) {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Language of the summary fields. The API defaults to English.
type Language string

// Summary languages accepted by the lang parameter. LanguageXPigLatin is
// the API's novelty language.
const (
	LanguageAr        Language = "ar"
	LanguageAz        Language = "az"
	LanguageBe        Language = "be"
	LanguageBs        Language = "bs"
	LanguageCs        Language = "cs"
	LanguageDe        Language = "de"
	LanguageEl        Language = "el"
	LanguageEn        Language = "en"
	LanguageEs        Language = "es"
	LanguageFr        Language = "fr"
	LanguageHr        Language = "hr"
	LanguageHu        Language = "hu"
	LanguageID        Language = "id"
	LanguageIt        Language = "it"
	LanguageIs        Language = "is"
	LanguageKw        Language = "kw"
	LanguageNb        Language = "nb"
	LanguageNl        Language = "nl"
	LanguagePl        Language = "pl"
	LanguagePt        Language = "pt"
	LanguageRu        Language = "ru"
	LanguageSk        Language = "sk"
	LanguageSr        Language = "sr"
	LanguageSv        Language = "sv"
	LanguageTet       Language = "tet"
	LanguageTr        Language = "tr"
	LanguageUk        Language = "uk"
	LanguageXPigLatin Language = "x-pig-latin"
	LanguageZh        Language = "zh"
	LanguageZhTw      Language = "zh-tw"
)

var allLanguages = []Language{
	LanguageAr, LanguageAz, LanguageBe, LanguageBs, LanguageCs, LanguageDe,
	LanguageEl, LanguageEn, LanguageEs, LanguageFr, LanguageHr, LanguageHu,
	LanguageID, LanguageIt, LanguageIs, LanguageKw, LanguageNb, LanguageNl,
	LanguagePl, LanguagePt, LanguageRu, LanguageSk, LanguageSr, LanguageSv,
	LanguageTet, LanguageTr, LanguageUk, LanguageXPigLatin, LanguageZh,
	LanguageZhTw,
}

// ParseLanguage parses one of the language codes the API accepts.
func ParseLanguage(s string) (Language, error) {
	for _, l := range allLanguages {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// Options parameterises a forecast request. The zero value sends no
// parameters. Options is a value type: every builder method returns a copy
// and leaves the receiver untouched.
type Options struct {
	params map[string]string
}

func (o Options) with(key, value string) Options {
	params := make(map[string]string, len(o.params)+1)
	for k, v := range o.params {
		params[k] = v
	}
	params[key] = value
	return Options{params: params}
}

// Exclude removes the given blocks from the response.
func (o Options) Exclude(blocks ...Block) Options {
	if len(blocks) == 0 {
		return o
	}
	names := make([]string, 0, len(blocks))
	for _, b := range blocks {
		names = append(names, string(b))
	}
	return o.with("exclude", strings.Join(names, ","))
}

// ExtendHourly extends the hourly block to seven days instead of two.
func (o Options) ExtendHourly() Options {
	return o.with("extend", "hourly")
}

// Language sets the language of summaries.
func (o Options) Language(l Language) Options {
	return o.with("lang", string(l))
}

// Unit sets the unit system of the response.
func (o Options) Unit(u Unit) Options {
	return o.with("units", string(u))
}

// Set adds an arbitrary query parameter, for API parameters this package
// does not model yet.
func (o Options) Set(key, value string) Options {
	return o.with(key, value)
}

// Get returns the value of a parameter.
func (o Options) Get(key string) (string, bool) {
	v, ok := o.params[key]
	return v, ok
}

// Len returns the number of parameters set.
func (o Options) Len() int {
	return len(o.params)
}

// Values returns the parameters as a query.
func (o Options) Values() url.Values {
	values := make(url.Values, len(o.params))
	for k, v := range o.params {
		values.Set(k, v)
	}
	return values
}

// String renders the options as "k=v" pairs sorted by key, for logging.
func (o Options) String() string {
	keys := make([]string, 0, len(o.params))
	for k := range o.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+o.params[k])
	}
	return strings.Join(pairs, " ")
}
