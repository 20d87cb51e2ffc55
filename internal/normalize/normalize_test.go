// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "abacavir", "abacavir"},
		{"case folded", "Abacavir", "abacavir"},
		{"surrounding whitespace", "  ABACAVIR  ", "abacavir"},
		{"registered sign dropped", "abacavir®", "abacavir"},
		{"trademark joins neighbors", "Ziagen™XR", "ziagenxr"},
		{"punctuation becomes space", "Tylenol-PM (extra strength)", "tylenol pm extra strength"},
		{"curly apostrophe", "Parkinson’s disease", "parkinson s disease"},
		{"en dash", "5–10 mg", "5 10 mg"},
		{"em dash", "before—after", "before after"},
		{"non-ascii letters dropped", "17β-estradiol", "17 estradiol"},
		{"accented letter dropped", "café", "caf"},
		{"interior whitespace collapsed", "bipolar \t disorder", "bipolar disorder"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"symbols only", "®™!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.in))
		})
	}
}

func TestTokenSort(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"reorders tokens", "disorder, bipolar", "bipolar disorder"},
		{"already sorted", "abacavir sulfate", "abacavir sulfate"},
		{"normalizes before sorting", "Sulfate/ABACAVIR", "abacavir sulfate"},
		{"single token", "Warfarin", "warfarin"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenSort(tt.in))
		})
	}
}

func TestTokenSortEqualizesWordOrder(t *testing.T) {
	assert.Equal(t, TokenSort("disorder, bipolar"), TokenSort("Bipolar Disorder"))
}

func TestSplitSynonyms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"commas and semicolons", "Tylenol, Tylenol PM; Panadol", []string{"Tylenol", "Tylenol PM", "Panadol"}},
		{"slashes and pipes", "ABC / Ziagen|Epzicom", []string{"ABC", "Ziagen", "Epzicom"}},
		{"surrounding quotes", `"aspirin, ASA"`, []string{"aspirin", "ASA"}},
		{"doubled quote escaping", `""Advil""`, []string{"Advil"}},
		{"quoted pieces", `"Coumadin", "Jantoven"`, []string{"Coumadin", "Jantoven"}},
		{"duplicates preserved", "ASA, ASA", []string{"ASA", "ASA"}},
		{"empty pieces dropped", "a,,b;;c", []string{"a", "b", "c"}},
		{"delimiters only", ",;/|", nil},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single name", "Ziagen", []string{"Ziagen"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSynonyms(tt.in))
		})
	}
}
