package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	domainerrors "sprint-review.backend/internal/domain/errors"
)

// mapStoreError converts driver errors into the domain store taxonomy.
func mapStoreError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domainerrors.ErrStoreTimeout, err)
	}
	return fmt.Errorf("%w: %w", domainerrors.ErrStoreFailure, err)
}

func checkInFilter(n, limit int) error {
	if limit > 0 && n > limit {
		return fmt.Errorf("%w: %d keys, limit %d", domainerrors.ErrInFilterTooLarge, n, limit)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern; prefixOnly anchors it at the start.
func containsPattern(term string, prefixOnly bool) string {
	escaped := likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term)))
	if prefixOnly {
		return escaped + "%"
	}
	return "%" + escaped + "%"
}
