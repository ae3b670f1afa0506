package authclient

// Message is a notification heading and body pair.
type Message struct {
	Heading string
	Body    string
}

// WithError appends the error message to the heading so the cause stays visible.
func (m Message) WithError(err error) Message {
	if err == nil {
		return m
	}
	return Message{
		Heading: m.Heading + ErrorMessage(err),
		Body:    m.Body,
	}
}

// Messages is the catalog of workflow notifications. Failure headings are
// prefixes, the underlying error message is appended.
type Messages struct {
	SignUpSuccess         Message
	SignUpFailure         Message
	SignInSuccess         Message
	SignInFailure         Message
	SignOutSuccess        Message
	SignOutFailure        Message
	ChangePasswordSuccess Message
	ChangePasswordFailure Message
}

// DefaultMessages returns the stock English catalog.
func DefaultMessages() Messages {
	return Messages{
		SignUpSuccess: Message{
			Heading: "Sign Up Success",
			Body:    "Succesfully registered! You've been signed in as well.",
		},
		SignUpFailure: Message{
			Heading: "Sign Up Failed with error: ",
			Body:    "Registration failed. Email may be taken, or passwords don't match.",
		},
		SignInSuccess: Message{
			Heading: "Sign In Success",
			Body:    "Welcome!",
		},
		SignInFailure: Message{
			Heading: "Sign In Failed with error: ",
			Body:    "Failed to sign in. Check your email and password and try again.",
		},
		SignOutSuccess: Message{
			Heading: "Signed Out Successfully",
			Body:    "Come back soon!",
		},
		SignOutFailure: Message{
			Heading: "Sign Out Failed with error: ",
			Body:    "Failed to sign out. You are still signed in, please try again.",
		},
		ChangePasswordSuccess: Message{
			Heading: "Change Password Success",
			Body:    "Password changed successfully!",
		},
		ChangePasswordFailure: Message{
			Heading: "Change Password Failed with error: ",
			Body:    "Failed to change passwords. Check your old password and try again.",
		},
	}
}

// merge fills empty entries of m from def.
func (m Messages) merge(def Messages) Messages {
	pick := func(v, d Message) Message {
		if v.Heading == "" && v.Body == "" {
			return d
		}
		return v
	}
	return Messages{
		SignUpSuccess:         pick(m.SignUpSuccess, def.SignUpSuccess),
		SignUpFailure:         pick(m.SignUpFailure, def.SignUpFailure),
		SignInSuccess:         pick(m.SignInSuccess, def.SignInSuccess),
		SignInFailure:         pick(m.SignInFailure, def.SignInFailure),
		SignOutSuccess:        pick(m.SignOutSuccess, def.SignOutSuccess),
		SignOutFailure:        pick(m.SignOutFailure, def.SignOutFailure),
		ChangePasswordSuccess: pick(m.ChangePasswordSuccess, def.ChangePasswordSuccess),
		ChangePasswordFailure: pick(m.ChangePasswordFailure, def.ChangePasswordFailure),
	}
}
