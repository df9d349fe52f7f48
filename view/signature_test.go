package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparateSignature(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		mainBody  string
		signature string
	}{
		{
			name:      "Name company phone",
			input:     "Thanks for reaching out.\n\nJohn Smith\nAcme Inc\n555-123-4567",
			mainBody:  "Thanks for reaching out.",
			signature: "John Smith\nAcme Inc\n555-123-4567",
		},
		{
			name:      "Marketing footer",
			input:     "Your order has shipped.\n\n[Logo](https://acme.com)\nAcme App\nView in Acme\nGet the app for iOS",
			mainBody:  "Your order has shipped.",
			signature: "[Logo](https://acme.com)\nAcme App\nView in Acme\nGet the app for iOS",
		},
		{
			name:      "Marketing lookback stops at a blank line",
			input:     "Hello.\n\nYour export is ready\n\nView in Acme",
			mainBody:  "Hello.\n\nYour export is ready",
			signature: "View in Acme",
		},
		{
			name:      "Delimiter",
			input:     "Please find the report attached.\n\n--\nJane Doe\njanedoe.dev",
			mainBody:  "Please find the report attached.",
			signature: "--\nJane Doe\njanedoe.dev",
		},
		{
			name:      "Sent from device",
			input:     "See you soon!\n\nSent from my iPhone",
			mainBody:  "See you soon!",
			signature: "Sent from my iPhone",
		},
		{
			name:      "Closing word is not a name",
			input:     "Let me know.\nThanks\n555-123-4567",
			mainBody:  "Let me know.\nThanks",
			signature: "555-123-4567",
		},
		{
			name:      "Social links",
			input:     "Great to meet you.\n\nAna Lima\nLinkedIn | Twitter",
			mainBody:  "Great to meet you.",
			signature: "Ana Lima\nLinkedIn | Twitter",
		},
		{
			name:      "Unsubscribe footer",
			input:     "Your weekly digest is ready.\n\nUnsubscribe from these emails",
			mainBody:  "Your weekly digest is ready.",
			signature: "Unsubscribe from these emails",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SeparateSignature(tc.input)
			require.NotNil(t, got.Signature)
			assert.Equal(t, tc.mainBody, got.MainBody)
			assert.Equal(t, tc.signature, *got.Signature)
		})
	}
}

func TestSeparateSignatureNone(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "Plain text", input: "Hello there.\nSee you tomorrow."},
		{name: "Whole body is signature", input: "John Smith\n555-123-4567"},
		{name: "Signature too short", input: "Some message here.\n\nx.io"},
		{name: "Date is not a phone", input: "Let's meet.\n12/05/2024"},
		{name: "Empty", input: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SeparateSignature(tc.input)
			assert.Nil(t, got.Signature)
			assert.Equal(t, tc.input, got.MainBody)
		})
	}
}

func TestSeparateSignatureIdempotent(t *testing.T) {
	input := "First paragraph.\n\nSecond paragraph with a link https://example.com/docs."

	first := SeparateSignature(input)
	require.Nil(t, first.Signature)
	second := SeparateSignature(first.MainBody)
	assert.Equal(t, first, second)
}

func TestIsSignatureLine(t *testing.T) {
	testCases := []struct {
		line     string
		expected bool
	}{
		{"--", true},
		{"--- hi", false},
		{"----------", true},
		{"Tel: +1 (555) 123-4567", true},
		{"M: 555.123.4567 ext 12", true},
		{"$1,250.00", false},
		{"www.acme.com", true},
		{"https://acme.io/team", true},
		{"acme.zzz", false},
		{"github.com/jane", true},
		{"![logo](https://x.com/l.png)", true},
		{"Sent with Spark", true},
		{"© 2024 Acme Inc. All rights reserved.", true},
		{"Manage your email preferences", true},
		{"You are receiving this because you signed up.", true},
		{"Open in Slack", true},
		{"Let's sync tomorrow.", false},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.expected, isSignatureLine(tc.line))
		})
	}
}
