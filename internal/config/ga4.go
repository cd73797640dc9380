package config

import (
	"os"
	"strings"
)

// GA4 environment variable names. All of them must be present for the Google provider.
const (
	EnvGA4Type                    = "GA4_TYPE"
	EnvGA4ProjectID               = "GA4_PROJECT_ID"
	EnvGA4PrivateKeyID            = "GA4_PRIVATE_KEY_ID"
	EnvGA4PrivateKey              = "GA4_PRIVATE_KEY"
	EnvGA4ClientEmail             = "GA4_CLIENT_EMAIL"
	EnvGA4ClientID                = "GA4_CLIENT_ID"
	EnvGA4AuthURI                 = "GA4_AUTH_URI"
	EnvGA4TokenURI                = "GA4_TOKEN_URI"
	EnvGA4AuthProviderX509CertURL = "GA4_AUTH_PROVIDER_X509_CERT_URL"
	EnvGA4ClientX509CertURL       = "GA4_CLIENT_X509_CERT_URL"
	EnvGA4UniverseDomain          = "GA4_UNIVERSE_DOMAIN"
	EnvGA4PropertyID              = "GA4_PROPERTY_ID"
)

// GA4RequiredEnv lists every variable checked before the Google provider is used.
var GA4RequiredEnv = []string{
	EnvGA4Type,
	EnvGA4ProjectID,
	EnvGA4PrivateKeyID,
	EnvGA4PrivateKey,
	EnvGA4ClientEmail,
	EnvGA4ClientID,
	EnvGA4AuthURI,
	EnvGA4TokenURI,
	EnvGA4AuthProviderX509CertURL,
	EnvGA4ClientX509CertURL,
	EnvGA4UniverseDomain,
	EnvGA4PropertyID,
}

// LookupEnv matches os.LookupEnv and lets callers substitute a fixed environment.
type LookupEnv func(key string) (string, bool)

// OSLookupEnv reads from the process environment.
var OSLookupEnv LookupEnv = os.LookupEnv

// GA4Env is the raw service-account material split across environment variables.
type GA4Env struct {
	Type                    string
	ProjectID               string
	PrivateKeyID            string
	PrivateKey              string
	ClientEmail             string
	ClientID                string
	AuthURI                 string
	TokenURI                string
	AuthProviderX509CertURL string
	ClientX509CertURL       string
	UniverseDomain          string
	PropertyID              string
}

// LoadGA4Env reads the GA4 variables and returns the names of the missing or blank ones.
func LoadGA4Env(lookup LookupEnv) (GA4Env, []string) {
	if lookup == nil {
		lookup = OSLookupEnv
	}
	values := make(map[string]string, len(GA4RequiredEnv))
	var missing []string
	for _, key := range GA4RequiredEnv {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = strings.TrimSpace(v)
	}
	return GA4Env{
		Type:                    values[EnvGA4Type],
		ProjectID:               values[EnvGA4ProjectID],
		PrivateKeyID:            values[EnvGA4PrivateKeyID],
		PrivateKey:              values[EnvGA4PrivateKey],
		ClientEmail:             values[EnvGA4ClientEmail],
		ClientID:                values[EnvGA4ClientID],
		AuthURI:                 values[EnvGA4AuthURI],
		TokenURI:                values[EnvGA4TokenURI],
		AuthProviderX509CertURL: values[EnvGA4AuthProviderX509CertURL],
		ClientX509CertURL:       values[EnvGA4ClientX509CertURL],
		UniverseDomain:          values[EnvGA4UniverseDomain],
		PropertyID:              values[EnvGA4PropertyID],
	}, missing
}

// MapLookup adapts a map to LookupEnv.
func MapLookup(env map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
