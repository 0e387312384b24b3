package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "property" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_value":
			msg = "値が型に適合しません"
		case "required":
			msg = "必須プロパティが不足しています"
		case "array_shape":
			msg = "配列の形が宣言と一致しません"
		case "unknown_property":
			msg = "未知のプロパティです"
		case "unknown_type":
			msg = "未知の型です"
		case "invalid_usage":
			msg = "要素の形が型と一致しません"
		}
	default: // "en"
		switch code {
		case "invalid_value":
			msg = "value does not satisfy the declared type"
		case "required":
			msg = "required property missing"
		case "array_shape":
			msg = "array shape disagrees with declaration"
		case "unknown_property":
			msg = "unknown property"
		case "unknown_type":
			msg = "unknown type"
		case "invalid_usage":
			msg = "element shape disagrees with the resolved type"
		}
	}
	if msg == "" {
		msg = code
	}
	return annotate(msg, data)
}

// annotate appends key=value metadata in stable, hand-picked order.
func annotate(msg string, data map[string]string) string {
	if len(data) == 0 {
		return msg
	}
	b := &strings.Builder{}
	b.WriteString(msg)
	for _, k := range []string{"property", "type", "value", "expected"} {
		if v, ok := data[k]; ok {
			b.WriteString(" (")
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(v)
			b.WriteString(")")
		}
	}
	return b.String()
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
