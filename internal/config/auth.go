package config

import "github.com/goccy/go-yaml"

type Auth struct {
	Providers AuthProviders `yaml:"providers"`
}

type AuthProviders struct {
	EntraID EntraIDProvider `yaml:"entraid"`
}

type OAuth2Provider struct {
	Key    InterpolatedString      `yaml:"key"`
	Secret InterpolatedString      `yaml:"secret"`
	Scopes InterpolatedStringSlice `yaml:"scopes"`
}

type EntraIDProvider struct {
	OAuth2Provider `yaml:",inline"`
	Tenant         InterpolatedString `yaml:"tenant"`
	AuthorizeURL   InterpolatedString `yaml:"authorizeUrl"`
	TokenURL       InterpolatedString `yaml:"tokenUrl"`
	UserInfoURL    InterpolatedString `yaml:"userInfoUrl"`
	Label          InterpolatedString `yaml:"label"`
	Icon           InterpolatedString `yaml:"icon"`
}

func NewDefaultAuthConfig() Auth {
	return Auth{
		Providers: AuthProviders{
			EntraID: EntraIDProvider{
				OAuth2Provider: OAuth2Provider{
					Key:    "${ENTRALOGIN_ENTRAID_KEY}",
					Secret: "${ENTRALOGIN_ENTRAID_SECRET}",
					Scopes: InterpolatedStringSlice{},
				},
				Tenant: "${ENTRALOGIN_ENTRAID_TENANT:-common}",
				Label:  "Microsoft",
				Icon:   "fa-microsoft",
			},
		},
	}
}

func NewAuthConfigCommentMap() yaml.CommentMap {
	return yaml.CommentMap{
		"":                                []*yaml.Comment{yaml.HeadComment(" Auth configuration")},
		".providers.entraid":              []*yaml.Comment{yaml.HeadComment(" Microsoft Entra ID provider", " The provider is disabled if key or secret is empty")},
		".providers.entraid.tenant":       []*yaml.Comment{yaml.HeadComment(" Directory tenant (identifier, domain, 'common', 'organizations' or 'consumers')")},
		".providers.entraid.scopes":       []*yaml.Comment{yaml.HeadComment(" Requested scopes", " Defaults to openid, profile, User.Read and email if empty")},
		".providers.entraid.authorizeUrl": []*yaml.Comment{yaml.HeadComment(" Optional authorization endpoint override ({tenant} is replaced)")},
		".providers.entraid.tokenUrl":     []*yaml.Comment{yaml.HeadComment(" Optional token endpoint override ({tenant} is replaced)")},
		".providers.entraid.userInfoUrl":  []*yaml.Comment{yaml.HeadComment(" Optional user info endpoint override")},
	}
}
