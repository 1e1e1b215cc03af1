package oauth2

import "github.com/bornholm/entralogin/pkg/oauth2/driver"

type Options struct {
	Providers []Provider
	Prefix    string
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Providers: make([]Provider, 0),
		Prefix:    "",
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

// WithProvider registers a provider, shown on the login page and served
// under {prefix}/providers/{id}.
func WithProvider(id string, label string, icon string, factory driver.AdapterFactory) OptionFunc {
	return func(opts *Options) {
		opts.Providers = append(opts.Providers, Provider{
			ID:      id,
			Label:   label,
			Icon:    icon,
			factory: factory,
		})
	}
}

func WithPrefix(prefix string) OptionFunc {
	return func(opts *Options) {
		opts.Prefix = prefix
	}
}
