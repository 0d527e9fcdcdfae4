// Package language detects the language of user input and translates
// assistant replies between English and Urdu.
package language

import (
	"strings"
	"unicode"
)

// Tag is a supported response language.
type Tag string

const (
	English Tag = "en"
	Urdu    Tag = "ur"
)

// Valid reports whether t is one of the supported tags.
func (t Tag) Valid() bool {
	return t == English || t == Urdu
}

// arabicScriptRatio above which input is treated as Urdu regardless of any
// Latin filler words mixed in.
const arabicScriptRatio = 0.3

// romanUrduMarkers are common Romanized Urdu words that rarely occur in
// English sentences. Two or more hits classify the input as Urdu.
var romanUrduMarkers = map[string]struct{}{
	"mera": {}, "meri": {}, "mujhe": {}, "mujhay": {}, "kitna": {}, "kitni": {},
	"paisa": {}, "paise": {}, "paisay": {}, "rupay": {}, "rupees": {},
	"kharcha": {}, "kharch": {}, "bachat": {}, "hisab": {}, "batao": {},
	"dikhao": {}, "banao": {}, "karo": {}, "kiya": {}, "kya": {}, "hai": {},
	"hain": {}, "nahi": {}, "nahin": {}, "acha": {}, "theek": {}, "shukria": {},
	"mahina": {}, "mahine": {}, "saal": {}, "aaj": {}, "kal": {},
}

// Detect classifies text as English or Urdu. Urdu script wins outright;
// otherwise Romanized Urdu is recognized by marker words.
func Detect(text string) Tag {
	var arabic, letters int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Arabic, r) {
			arabic++
		}
	}
	if letters > 0 && float64(arabic)/float64(letters) >= arabicScriptRatio {
		return Urdu
	}

	hits := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if _, ok := romanUrduMarkers[word]; ok {
			hits++
			if hits >= 2 {
				return Urdu
			}
		}
	}
	return English
}
