package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the expected auth scheme, compared case-insensitively.
const BearerScheme = "bearer"

// DefaultAvatarURL is stored for accounts registered without an avatar.
const DefaultAvatarURL = "https://www.gravatar.com/avatar/?d=mp"

// DefaultArticleImageURL is stored for articles created without an image.
const DefaultArticleImageURL = "https://images.pexels.com/photos/97050/pexels-photo-97050.jpeg?w=700&h=700"
