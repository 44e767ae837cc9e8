package main

import (
	"path/filepath"
	"strings"

	"github.com/2389-research/translator/language"
)

// defaultOutputPath derives the output file name from the input by inserting
// the target language's ISO code before the extension, so post.md translated
// to Spanish becomes post.es.md.
func defaultOutputPath(inputPath, targetLanguage string) string {
	code := language.Code(targetLanguage)
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, ext)
	return stem + "." + code + ext
}
