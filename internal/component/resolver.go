package component

import (
	"net/http"

	"github.com/yanizio/adept-forms/internal/form"
	"github.com/yanizio/adept-forms/internal/session"
	"github.com/yanizio/adept-forms/internal/store"
)

// SessionResolver keeps one Binding per visitor under key, building it on
// the visitor's first request.  The session stays locked until release.
func SessionResolver[N ~string](
	sessions *session.Cache,
	key string,
	build func(*store.Store) (*form.Binding[N], error),
) form.Resolver[N] {
	return func(w http.ResponseWriter, r *http.Request) (*form.Binding[N], func(), error) {
		s, err := sessions.FromRequest(w, r)
		if err != nil {
			return nil, nil, err
		}
		s.Lock()
		b, err := session.Binding(s, key, build)
		if err != nil {
			s.Unlock()
			return nil, nil, err
		}
		return b, s.Unlock, nil
	}
}
