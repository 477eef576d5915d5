// Package document loads safety data sheets as plain text.
package document

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/sds-assess/internal/model"
)

// referenceLen is the length of the SDS reference prefix of a document ID,
// e.g. "CO-028296-HS-2".
const referenceLen = 14

// Supported extensions.
var supported = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
	".htm":      true,
}

// Supported reports whether path has a loadable extension.
func Supported(path string) bool {
	return supported[strings.ToLower(filepath.Ext(path))]
}

// Load reads the document at path. The document ID is the file's base name.
func Load(path string) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, eris.Wrapf(err, "document: read %s", path)
	}
	return Parse(filepath.Base(path), data)
}

// Parse builds a document from raw bytes. HTML is converted to markdown;
// input that is not valid UTF-8 is decoded as Windows-1252.
func Parse(id string, data []byte) (model.Document, error) {
	if strings.TrimSpace(id) == "" {
		return model.Document{}, eris.New("document: empty id")
	}
	ext := strings.ToLower(filepath.Ext(id))
	if ext != "" && !supported[ext] {
		return model.Document{}, eris.Errorf("document: unsupported extension %q", ext)
	}

	text, err := decode(data)
	if err != nil {
		return model.Document{}, eris.Wrapf(err, "document: decode %s", id)
	}

	if ext == ".html" || ext == ".htm" || looksLikeHTML(text) {
		text, err = htmlToMarkdown(text)
		if err != nil {
			return model.Document{}, eris.Wrapf(err, "document: convert %s", id)
		}
	}

	return model.Document{ID: id, Text: normalize(text)}, nil
}

func decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff"), nil
	}
	enc, err := htmlindex.Get("windows-1252")
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var htmlStartRe = regexp.MustCompile(`(?is)^\s*(<!doctype html|<html)`)

func looksLikeHTML(text string) bool {
	return htmlStartRe.MatchString(text)
}

func htmlToMarkdown(text string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return converter.ConvertString(text)
}

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = excessiveLinesRe.ReplaceAllString(text, "\n\n\n")
	return strings.TrimSpace(text)
}

// ReferenceID returns the SDS reference: the first 14 characters of the
// document ID, or the whole ID when shorter.
func ReferenceID(id string) string {
	r := []rune(id)
	if len(r) <= referenceLen {
		return id
	}
	return string(r[:referenceLen])
}

// ProductName returns the product part of an ID following the
// "<reference>_<product>.<ext>" convention, e.g. "Acetone" for
// "CO-028296-HS-2_Acetone.md". It returns "" when the ID is too short to
// carry a product.
func ProductName(id string) string {
	stem := strings.TrimSuffix(id, filepath.Ext(id))
	r := []rune(stem)
	if len(r) <= referenceLen+1 {
		return ""
	}
	return strings.TrimSpace(string(r[referenceLen+1:]))
}
