package editor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/boxedit/internal/assets"
	"github.com/Faultbox/boxedit/internal/watch"
)

// LocalFiles returns the on-disk paths behind the current model and texture
// references.
func (s *Session) LocalFiles() []string {
	modelRef, textureRef := s.Refs()
	var out []string
	for _, ref := range []string{modelRef, textureRef} {
		if ref != "" && assets.KindOf(ref) == assets.KindFile {
			out = append(out, s.loader.Resolve(ref))
		}
	}
	return out
}

// Live reloads s whenever one of its local files changes, until ctx is
// done. onReload, when set, receives the result of every reload. A failed
// reload keeps the previous model.
func Live(ctx context.Context, s *Session, debounce time.Duration, onReload func(error)) error {
	w, err := watch.New(debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, path := range s.LocalFiles() {
		if err := w.Add(path); err != nil {
			return err
		}
	}

	return w.Run(ctx, func(paths []string) {
		err := s.Reload(ctx)
		if err != nil {
			s.log.Warn("live reload failed", zap.Strings("changed", paths), zap.Error(err))
		} else {
			s.log.Info("live reload", zap.Strings("changed", paths))
		}
		if onReload != nil {
			onReload(err)
		}
	})
}
