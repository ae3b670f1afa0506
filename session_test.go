package authclient_test

import (
	"sync"
	"testing"

	authclient "github.com/goliatone/go-auth-client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerStartsAnonymous(t *testing.T) {
	sessions := authclient.NewSessionManager()

	identity, ok := sessions.Current()
	assert.False(t, ok)
	assert.Equal(t, authclient.Identity{}, identity)
	assert.False(t, sessions.Authenticated())
}

func TestSessionManagerSetReplacesSession(t *testing.T) {
	sessions := authclient.NewSessionManager()

	sessions.Set(authclient.Identity{ID: "1", Email: "a@b.c", Token: "t1"})
	sessions.Set(authclient.Identity{ID: "2", Email: "d@e.f", Token: "t2"})

	identity, ok := sessions.Current()
	require.True(t, ok)
	assert.Equal(t, "2", identity.ID)
	assert.Equal(t, "t2", identity.Token)
}

func TestSessionManagerClearIsIdempotent(t *testing.T) {
	sessions := authclient.NewSessionManager()

	var changes []bool
	sessions.Subscribe(func(_ authclient.Identity, ok bool) {
		changes = append(changes, ok)
	})

	sessions.Clear()
	sessions.Set(authclient.Identity{Email: "a@b.c", Token: "t"})
	sessions.Clear()
	sessions.Clear()

	_, ok := sessions.Current()
	assert.False(t, ok)
	assert.Equal(t, []bool{true, false}, changes)
}

func TestSessionManagerUnsubscribe(t *testing.T) {
	sessions := authclient.NewSessionManager()

	calls := 0
	unsubscribe := sessions.Subscribe(func(authclient.Identity, bool) { calls++ })
	sessions.Set(authclient.Identity{Token: "t"})
	unsubscribe()
	sessions.Clear()

	assert.Equal(t, 1, calls)
}

func TestIdentityStringMasksToken(t *testing.T) {
	identity := authclient.Identity{ID: "1", Email: "a@b.c", Token: "abcdef123456"}

	assert.Contains(t, identity.String(), "token=abcd********")
	assert.NotContains(t, identity.String(), "123456")
	assert.True(t, identity.HasToken())
	assert.False(t, authclient.Identity{Token: "  "}.HasToken())
}

func TestCredentialsReset(t *testing.T) {
	creds := &authclient.Credentials{Email: "a@b.c", Password: "pw", PasswordConfirmation: "pw"}
	creds.Reset()
	assert.Equal(t, authclient.Credentials{}, *creds)

	var nilCreds *authclient.Credentials
	assert.NotPanics(t, nilCreds.Reset)

	passwords := &authclient.PasswordChange{OldPassword: "a", NewPassword: "b"}
	passwords.Reset()
	assert.Equal(t, authclient.PasswordChange{}, *passwords)
}

func TestSessionListenersEndOnLatestState(t *testing.T) {
	sessions := authclient.NewSessionManager()

	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	lastOK := false
	sessions.Subscribe(func(_ authclient.Identity, ok bool) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
		mu.Lock()
		lastOK = ok
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		sessions.Set(authclient.Identity{Email: "a@b.c", Token: "t"})
	}()

	<-started
	sessions.Clear()
	close(release)
	<-done

	_, active := sessions.Current()
	assert.False(t, active)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, lastOK, "listener must end on the cleared session")
	assert.Equal(t, 2, calls)
}
