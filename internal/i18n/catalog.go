// Package i18n はエラーコードを利用者の言語のメッセージにする
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type Catalog struct {
	cat       *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
}

// New はカタログを作る。defaultLangが先頭（一致しないときに使う言語）になる
func New(defaultLang string) (*Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range english {
		if err := b.SetString(language.English, key, msg); err != nil {
			return nil, fmt.Errorf("i18n en %s: %w", key, err)
		}
	}
	for key, msg := range english {
		//訳がないキーは英語のまま
		if hu, ok := hungarian[key]; ok {
			msg = hu
		}
		if err := b.SetString(language.Hungarian, key, msg); err != nil {
			return nil, fmt.Errorf("i18n hu %s: %w", key, err)
		}
	}

	def, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_LANGUAGE: %w", err)
	}

	supported := []language.Tag{language.English, language.Hungarian}
	if base, _ := def.Base(); base.String() == "hu" {
		supported = []language.Tag{language.Hungarian, language.English}
	}

	return &Catalog{
		cat:       b,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}, nil
}

// Lookup はAccept-Languageの値から言語を選んでメッセージを作る
// 知らないコードは error.default になる
func (c *Catalog) Lookup(acceptLanguage string, code string, args ...any) string {
	if _, ok := english[code]; !ok {
		code = DefaultCode
		args = nil
	}
	p := message.NewPrinter(c.Pick(acceptLanguage), message.Catalog(c.cat))
	return p.Sprintf(code, args...)
}

// Pick は対応している言語から1つ選ぶ
func (c *Catalog) Pick(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.supported[0]
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.supported[0]
	}
	return c.supported[idx]
}

// Has はコードがカタログにあるか
func Has(code string) bool {
	_, ok := english[code]
	return ok
}
