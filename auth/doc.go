// Package auth attaches credentials to outgoing requests.
//
// Credentials are applied by transport decorators (BearerTransport,
// APIKeyTransport) that sit beneath the retry loop, so every attempt carries
// a current credential. Bearer tokens come from a TokenSource: a static
// token, an HS256 JWT minted locally (JWTSource), or an OAuth2
// client-credentials grant (ClientCredentialsSource).
package auth
