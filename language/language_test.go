package language_test

import (
	"testing"

	"github.com/2389-research/translator/language"
	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "direct lookup", in: "Spanish", want: "es"},
		{name: "native name", in: "Español", want: "es"},
		{name: "colloquial variant", in: "Brazilian", want: "pt"},
		{name: "farsi alias", in: "Farsi", want: "fa"},
		{name: "whitespace and case", in: "  FRENCH ", want: "fr"},
		{name: "bcp47 tag", in: "pt-BR", want: "pt"},
		{name: "bare code", in: "de", want: "de"},
		{name: "unknown falls back to prefix", in: "Klingon", want: "kl"},
		{name: "punctuation stripped", in: "polski!", want: "pl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, language.Code(tt.in))
		})
	}
}
