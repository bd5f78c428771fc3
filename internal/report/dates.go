package report

import (
	"time"

	"github.com/goodsign/monday"
)

type dateLocale struct {
	locale monday.Locale
	layout string
}

var dateLocales = map[string]dateLocale{
	"en": {locale: monday.LocaleEnGB, layout: "January 2, 2006"},
	"fr": {locale: monday.LocaleFrFR, layout: "2 January 2006"},
}

// FormatLong renders the date portion of t in the long localized form, e.g.
// "March 3, 2025" for en. Unsupported locales fall back to English. The
// result depends only on (t, locale), never on the process time zone.
func FormatLong(t time.Time, locale string) string {
	dl, ok := dateLocales[locale]
	if !ok {
		dl = dateLocales["en"]
	}
	return monday.Format(t, dl.layout, dl.locale)
}
