package http

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	msgModelUnavailable = "Model is not available"
	msgNoFile           = "No file was uploaded"
)

var (
	messageLanguages = []language.Tag{language.English, language.Indonesian}
	messageMatcher   = language.NewMatcher(messageLanguages)
	messageCatalog   = newMessageCatalog()
)

func newMessageCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	b.SetString(language.English, msgModelUnavailable, msgModelUnavailable)
	b.SetString(language.English, msgNoFile, msgNoFile)
	b.SetString(language.Indonesian, msgModelUnavailable, "Model tidak tersedia")
	b.SetString(language.Indonesian, msgNoFile, "Tidak ada file yang diupload")
	return b
}

// printerFor picks English or Indonesian from Accept-Language, defaulting to
// English.
func printerFor(r *http.Request) *message.Printer {
	tags, _, _ := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	tag := language.English
	if _, index, confidence := messageMatcher.Match(tags...); confidence != language.No {
		tag = messageLanguages[index]
	}
	return message.NewPrinter(tag, message.Catalog(messageCatalog))
}

func localize(r *http.Request, key string) string {
	return printerFor(r).Sprintf(key)
}
