package validation

// LoginInput is the credential payload for POST /auth/login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`

	mismatched []mismatch
}

type loginRules struct {
	Username string `json:"username" label:"Username" validate:"required,alphanum,min=3,max=30"`
	Password string `json:"password" label:"Password" validate:"required,min=6,max=100"`
	Role     string `json:"role" label:"Role" validate:"required,oneof=admin viewer"`
}

// Login validates credentials. The password is never trimmed or echoed back
// in error details.
func (g *Gate) Login(in LoginInput) (LoginInput, error) {
	rules := loginRules{
		Username: trimmed(&in.Username),
		Password: in.Password,
		Role:     trimmed(&in.Role),
	}

	if err := g.check(&rules, in.mismatched...); err != nil {
		if verr, ok := asValidation(err); ok {
			for i := range verr.Details {
				if verr.Details[i].Field == "password" {
					verr.Details[i].Value = nil
				}
			}
		}
		return LoginInput{}, err
	}
	return LoginInput{Username: rules.Username, Password: rules.Password, Role: rules.Role}, nil
}

func Login(in LoginInput) (LoginInput, error) {
	return defaultGate.Login(in)
}
