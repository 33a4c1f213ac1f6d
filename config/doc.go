// Package config loads client configuration from YAML.
//
// A file describes the engine defaults, the transport guards, telemetry and
// outgoing credentials:
//
//	baseURL: https://api.example.com
//	headers:
//	  X-Client: reqslots
//	cache:
//	  maxAge: 5m
//	share:
//	  allowedMethods: [get, head]
//	retry:
//	  maxTimes: 2
//	  delay: 250ms
//	  allowedHTTPStatus: [429, [500, 599]]
//	limits:
//	  maxConcurrent: 8
//	observe:
//	  serviceName: fetcher
//	  logging: {enabled: true, level: info}
//	auth:
//	  type: bearer
//	  settings:
//	    token: secretref:env:API_TOKEN
//	secrets:
//	  providers:
//	    env: {prefix: REQSLOTS_}
//	    file: {dir: /run/secrets}
//
// String values in baseURL, headers and auth settings go through a
// secret.Resolver built from the secrets section. Call Resolve before
// Validate: auth settings are only checked once references are expanded.
package config
