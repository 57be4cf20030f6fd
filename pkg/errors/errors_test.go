package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeTypeCoercion, "cannot coerce %q", "abc")

	if err.Code != ErrCodeTypeCoercion {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTypeCoercion)
	}

	if err.Message != `cannot coerce "abc"` {
		t.Errorf("Message = %v, want %v", err.Message, `cannot coerce "abc"`)
	}

	expected := `TYPE_COERCION: cannot coerce "abc"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of input")
	err := Wrap(ErrCodeInvalidJSON, cause, "parse source")

	if err.Code != ErrCodeInvalidJSON {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidJSON)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodePathNotFound, "test"),
			code:     ErrCodePathNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodePathNotFound, "test"),
			code:     ErrCodeTypeCoercion,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeOracleFailure, New(ErrCodeInternal, "inner"), "outer"),
			code:     ErrCodeOracleFailure,
			expected: true,
		},
		{
			name:     "joined",
			err:      joined(New(ErrCodeInvalidJSON, "bad")),
			code:     ErrCodeInvalidJSON,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func joined(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeSessionNotFound, "test"), ErrCodeSessionNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %v, want %v", got, "friendly message")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %v, want %v", got, "plain error")
	}
}

func TestRecoverable(t *testing.T) {
	for _, code := range []Code{ErrCodeInvalidJSON, ErrCodePathNotFound, ErrCodeTypeCoercion, ErrCodeOracleFailure} {
		if !Recoverable(New(code, "x")) {
			t.Errorf("Recoverable(%s) = false, want true", code)
		}
	}
	if Recoverable(New(ErrCodeInternal, "x")) {
		t.Error("Recoverable(INTERNAL_ERROR) = true, want false")
	}
	if Recoverable(errors.New("plain")) {
		t.Error("Recoverable(plain) = true, want false")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidJSON, 422},
		{ErrCodeTypeCoercion, 422},
		{ErrCodePathNotFound, 404},
		{ErrCodeSessionNotFound, 404},
		{ErrCodeUnsupported, 501},
		{ErrCodeInternal, 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
