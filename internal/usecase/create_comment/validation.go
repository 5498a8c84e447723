package create_comment

import (
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ShareItService/internal/domain"
)

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.BadRequest("text must not be blank")
	}
	if utf8.RuneCountInString(text) > domain.MaxCommentLength {
		return domain.BadRequest("text must not be longer than %d characters", domain.MaxCommentLength)
	}
	return nil
}
