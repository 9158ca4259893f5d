package validate

import (
	"errors"

	"github.com/dmitrijs2005/newsroom/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
)

type RegisterInput struct {
	Username  string
	Password  string
	Name      string
	AvatarURL *string
}

// Register checks a registration body phase by phase: presence, then format
// of every field, then emptiness, then lengths. The first failure wins.
func Register(body Body) (RegisterInput, error) {
	if !body.has(Username.Key) || !body.has(Password.Key) || !body.has(Name.Key) {
		return RegisterInput{}, common.NewBadRequest("Username, password and name are required")
	}

	fields := []Field{Username, Password, Name}
	if v, ok := body[AvatarURL.Key]; ok && v != nil {
		fields = append(fields, AvatarURL)
	}

	phases := []func(Field) validation.Rule{Field.format, Field.empty, Field.length}
	for _, phase := range phases {
		for _, f := range fields {
			rule := phase(f)
			if rule == nil {
				continue
			}
			if err := validation.Validate(body[f.Key], rule); err != nil {
				return RegisterInput{}, badRequest(err)
			}
		}
	}

	in := RegisterInput{
		Username: body[Username.Key].(string),
		Password: body[Password.Key].(string),
		Name:     body[Name.Key].(string),
	}
	if len(fields) == 4 {
		s := body[AvatarURL.Key].(string)
		in.AvatarURL = &s
	}
	return in, nil
}

// Login returns the credentials of a login body.
func Login(body Body) (username, password string, err error) {
	if !body.has(Username.Key) || !body.has(Password.Key) {
		return "", "", common.NewBadRequest("Username and password are required")
	}
	for _, f := range []Field{Username, Password} {
		if err := validation.Validate(body[f.Key], f.format()); err != nil {
			return "", "", badRequest(err)
		}
	}
	return body[Username.Key].(string), body[Password.Key].(string), nil
}

type UserPatchInput struct {
	NewUsername *string
	Password    *string
	Name        *string
	AvatarURL   *string
	IsPrivate   *bool
}

var patchFields = []string{UpdatedUsername.Key, Name.Key, Password.Key, AvatarURL.Key, "is_private"}

// UserPatch validates each present field completely before moving on to the
// next one, in the order updatedUsername, password, name, avatar_url,
// is_private.
func UserPatch(body Body) (UserPatchInput, error) {
	var in UserPatchInput

	found := false
	for _, k := range patchFields {
		if body.has(k) {
			found = true
			break
		}
	}
	if !found {
		return in, common.ErrNoFieldsProvided
	}

	var err error
	if in.NewUsername, err = UpdatedUsername.optional(body); err != nil {
		return in, err
	}
	if in.Password, err = blank(Password).optional(body); err != nil {
		return in, err
	}
	if in.Name, err = blank(Name).optional(body); err != nil {
		return in, err
	}
	if in.AvatarURL, err = blank(AvatarURL).optional(body); err != nil {
		return in, err
	}

	if v, ok := body["is_private"]; ok {
		err := validation.Validate(v, validation.By(func(v interface{}) error {
			if _, ok := v.(bool); !ok {
				return errors.New("is_private must be in a valid format")
			}
			return nil
		}))
		if err != nil {
			return in, badRequest(err)
		}
		b := v.(bool)
		in.IsPrivate = &b
	}

	return in, nil
}

func blank(f Field) Field {
	f.Blank = true
	return f
}
