package codec

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func snapshotWithEntry() *models.Snapshot {
	s := models.NewSnapshot(now)
	g := models.NewGroup("Work", now)
	c := models.NewCredential("Mail", now)
	c.Password = "s3cret"
	g.Add(c, now)
	s.Groups = append(s.Groups, g)
	return s
}

func TestDetectEncrypted(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"envelope", `{"data":"abc","version":1}`, true},
		{"envelope mixed case", `{"Data":"abc","VERSION":"2.2.0"}`, true},
		{"plaintext", `{"groups":[],"version":"2.2.0"}`, false},
		{"plaintext with data key", `{"groups":[],"data":"x","version":"2.2.0"}`, false},
		{"settings beside envelope keys", `{"data":"x","version":1,"settings":{}}`, false},
		{"missing version", `{"data":"abc"}`, false},
		{"array", `[1,2]`, false},
		{"garbage", `not json`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectEncrypted([]byte(tt.raw)))
		})
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	s := snapshotWithEntry()

	raw, err := Encrypt(s, []byte("pw"))
	require.NoError(t, err)
	require.True(t, DetectEncrypted(raw))
	assert.NotContains(t, string(raw), "s3cret")

	got, err := Decrypt(raw, []byte("pw"), now)
	require.NoError(t, err)
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecrypt_Errors(t *testing.T) {
	raw, err := Encrypt(snapshotWithEntry(), []byte("right"))
	require.NoError(t, err)

	_, err = Decrypt(raw, []byte("wrong"), now)
	assert.ErrorIs(t, err, common.ErrEncryption)
	assert.NotErrorIs(t, err, common.ErrNotEncrypted)

	plain, err := EncodePlain(snapshotWithEntry())
	require.NoError(t, err)
	_, err = Decrypt(plain, []byte("right"), now)
	assert.ErrorIs(t, err, common.ErrNotEncrypted)
	assert.NotErrorIs(t, err, common.ErrEncryption)

	_, err = Decrypt([]byte(`{"data":"%%%","version":1}`), []byte("right"), now)
	assert.ErrorIs(t, err, common.ErrEncryption)
}

func TestDecodePlain(t *testing.T) {
	_, err := DecodePlain([]byte(`{"groups":[`), now)
	assert.ErrorIs(t, err, common.ErrFormat)

	_, err = DecodePlain([]byte(`{"groups":[]}{"x":1}`), now)
	assert.ErrorIs(t, err, common.ErrFormat)

	_, err = DecodePlain([]byte(`{"groups":[],"version":""}`), now)
	assert.ErrorIs(t, err, common.ErrFormat)

	s, err := DecodePlain([]byte(`{"groups":[{"name":"A","accounts":[]}],"version":"1.0.0"}`), now)
	require.NoError(t, err)
	assert.Len(t, s.Groups, 1)

	s, err = DecodePlain([]byte(`{"Groups":[],"VERSION":"2.0.0"}`), now)
	require.NoError(t, err)
	assert.Empty(t, s.Groups)
}

func TestDecodePlain_UnrecognizedShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"null", `null`},
		{"empty object", `{}`},
		{"array", `[]`},
		{"string", `"groups"`},
		{"foreign object", `{"accounts":[{"name":"Chase"}]}`},
		{"no version", `{"groups":[{"name":"A"}]}`},
		{"null version", `{"groups":[],"version":null}`},
		{"numeric version", `{"groups":[],"version":2}`},
		{"blank version", `{"groups":[],"version":"  "}`},
		{"no groups", `{"version":"2.2.0","settings":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodePlain([]byte(tt.raw), now)
			assert.ErrorIs(t, err, common.ErrFormat)
			assert.Nil(t, s)
		})
	}
}

func TestGate_PendingUntilPassphrase(t *testing.T) {
	raw, err := Encrypt(snapshotWithEntry(), []byte("pw"))
	require.NoError(t, err)

	g := NewGate()
	g.now = func() time.Time { return now }

	_, err = g.Decode(raw)
	require.ErrorIs(t, err, common.ErrEncryptionPending)

	select {
	case <-g.Ready():
		t.Fatal("gate must not be ready before a passphrase is set")
	default:
	}

	g.SetPassphrase([]byte("pw"))
	<-g.Ready()
	require.True(t, g.HasPassphrase())

	s, err := g.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Mail", s.Groups[0].Accounts[0].Name)

	g.SetPassphrase([]byte("other"))
	_, err = g.Decode(raw)
	assert.ErrorIs(t, err, common.ErrEncryption)
}

func TestGate_EncodeFollowsPassphrase(t *testing.T) {
	g := NewGate()
	s := snapshotWithEntry()

	plain, err := g.Encode(s)
	require.NoError(t, err)
	assert.False(t, DetectEncrypted(plain))
	assert.Contains(t, string(plain), `"groups"`)

	g.SetPassphrase([]byte("pw"))
	enc, err := g.Encode(s)
	require.NoError(t, err)
	assert.True(t, DetectEncrypted(enc))

	g.ClearPassphrase()
	assert.False(t, g.HasPassphrase())
	plain, err = g.Encode(s)
	require.NoError(t, err)
	assert.False(t, DetectEncrypted(plain))

	got, err := g.Decode(plain)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(s, got))
}
