package server

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// reservedNickname cannot be claimed by clients; the server signs its own
// announcements with it.
const reservedNickname = "System"

// ValidateNickname checks a proposed nickname against the configured length
// bounds, the reserved name, and the allowed character set. Checks run in
// order and stop at the first failure. The function is pure: it neither
// reserves the name nor consults room state.
func ValidateNickname(nickname string, cfg Config) error {
	if nickname == "" {
		return ErrNicknameEmpty
	}

	length := utf8.RuneCountInString(nickname)
	if length < cfg.NicknameMinLen {
		return &NicknameTooShortError{Min: cfg.NicknameMinLen}
	}
	if length > cfg.NicknameMaxLen {
		return &NicknameTooLongError{Max: cfg.NicknameMaxLen}
	}

	if strings.EqualFold(nickname, reservedNickname) {
		return ErrNicknameReserved
	}

	for _, r := range nickname {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return ErrNicknameInvalidChars
		}
	}
	return nil
}
