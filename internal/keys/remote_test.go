package keys

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
)

// fakeKeyServer mimics the remote key service API: it "wraps" by XOR-ing
// every byte with a fixed pad, so unwrap is its own inverse, and signs with a
// recognizable prefix. Good enough to exercise the wire protocol.
type fakeKeyServer struct {
	srv *httptest.Server

	paths []string
}

const fakePad = 0x5a

func newFakeKeyServer(t *testing.T) *fakeKeyServer {
	t.Helper()

	f := &fakeKeyServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/keys/{ref}/wrap", func(w http.ResponseWriter, r *http.Request) {
		f.paths = append(f.paths, r.URL.Path)

		var req wrapRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		plaintext, err := base64.StdEncoding.DecodeString(req.Plaintext)
		require.NoError(t, err)

		writeJSON(t, w, wrapResponse{Ciphertext: base64.StdEncoding.EncodeToString(xorPad(plaintext))})
	})
	mux.HandleFunc("POST /api/keys/{ref}/unwrap", func(w http.ResponseWriter, r *http.Request) {
		f.paths = append(f.paths, r.URL.Path)

		var req unwrapRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		ciphertext, err := base64.StdEncoding.DecodeString(req.Ciphertext)
		require.NoError(t, err)

		writeJSON(t, w, unwrapResponse{Plaintext: base64.StdEncoding.EncodeToString(xorPad(ciphertext))})
	})
	mux.HandleFunc("POST /api/keys/{ref}/sign", func(w http.ResponseWriter, r *http.Request) {
		f.paths = append(f.paths, r.URL.Path)

		var req signRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		digest, err := base64.StdEncoding.DecodeString(req.Digest)
		require.NoError(t, err)

		signature := append([]byte("signed:"), digest...)
		writeJSON(t, w, signResponse{Signature: base64.StdEncoding.EncodeToString(signature)})
	})
	mux.HandleFunc("POST /api/keys/{ref}/verify", func(w http.ResponseWriter, r *http.Request) {
		f.paths = append(f.paths, r.URL.Path)

		var req verifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		digest, err := base64.StdEncoding.DecodeString(req.Digest)
		require.NoError(t, err)
		signature, err := base64.StdEncoding.DecodeString(req.Signature)
		require.NoError(t, err)

		want := append([]byte("signed:"), digest...)
		writeJSON(t, w, verifyResponse{Valid: string(signature) == string(want)})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	return f
}

func (f *fakeKeyServer) client(t *testing.T) KeyService {
	t.Helper()

	return NewRemoteKeyService(config.Keys{
		RemoteAddress:  f.srv.URL,
		RequestTimeout: time.Second,
	}, logger.Nop())
}

func xorPad(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ fakePad
	}
	return out
}

func writeJSON(t *testing.T, w http.ResponseWriter, body any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// ─────────────────────────── tests ───────────────────────────

func TestRemoteKeyService_WrapUnwrapRoundTrip(t *testing.T) {
	fake := newFakeKeyServer(t)
	svc := fake.client(t)
	ctx := context.Background()

	dataKey := []byte("exactly-thirty-two-bytes-long!!!")

	wrapped, err := svc.WrapKey(ctx, "master-key-1", dataKey)
	require.NoError(t, err)
	assert.NotEqual(t, dataKey, wrapped)

	unwrapped, err := svc.UnwrapKey(ctx, "master-key-1", wrapped)
	require.NoError(t, err)
	assert.Equal(t, dataKey, unwrapped)

	assert.Equal(t, []string{
		"/api/keys/master-key-1/wrap",
		"/api/keys/master-key-1/unwrap",
	}, fake.paths)
}

func TestRemoteKeyService_SignAndVerify(t *testing.T) {
	fake := newFakeKeyServer(t)
	svc := fake.client(t)
	ctx := context.Background()

	digest := sha256.Sum256([]byte("hash record payload"))

	signature, err := svc.Sign(ctx, "signing-key-1", digest[:])
	require.NoError(t, err)

	valid, err := svc.Verify(ctx, "signing-key-1", digest[:], signature)
	require.NoError(t, err)
	assert.True(t, valid)

	other := sha256.Sum256([]byte("tampered payload"))
	valid, err = svc.Verify(ctx, "signing-key-1", other[:], signature)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestRemoteKeyService_RejectsNonSHA256DigestLocally(t *testing.T) {
	fake := newFakeKeyServer(t)
	svc := fake.client(t)
	ctx := context.Background()

	_, err := svc.Sign(ctx, "signing-key-1", []byte("too short"))
	assert.ErrorIs(t, err, ErrInvalidDigest)

	_, err = svc.Verify(ctx, "signing-key-1", []byte("too short"), []byte("sig"))
	assert.ErrorIs(t, err, ErrInvalidDigest)

	assert.Empty(t, fake.paths, "invalid digests must not reach the wire")
}

func TestRemoteKeyService_ErrorStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "key not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	svc := NewRemoteKeyService(config.Keys{RemoteAddress: srv.URL}, logger.Nop())
	ctx := context.Background()
	digest := sha256.Sum256([]byte("payload"))

	_, err := svc.WrapKey(ctx, "missing", []byte("data key"))
	assert.ErrorIs(t, err, ErrWrapFailed)

	_, err = svc.UnwrapKey(ctx, "missing", []byte("blob"))
	assert.ErrorIs(t, err, ErrUnwrapFailed)

	_, err = svc.Sign(ctx, "missing", digest[:])
	assert.ErrorIs(t, err, ErrSignFailed)

	_, err = svc.Verify(ctx, "missing", digest[:], []byte("sig"))
	assert.ErrorIs(t, err, ErrKeyServiceUnavailable)
}

func TestRemoteKeyService_Unreachable(t *testing.T) {
	// Grab a port that is guaranteed to have nothing listening on it.
	srv := httptest.NewServer(http.NotFoundHandler())
	address := srv.URL
	srv.Close()

	svc := NewRemoteKeyService(config.Keys{
		RemoteAddress:  address,
		RequestTimeout: 500 * time.Millisecond,
	}, logger.Nop())

	_, err := svc.WrapKey(context.Background(), "master-key-1", []byte("data key"))
	assert.ErrorIs(t, err, ErrKeyServiceUnavailable)
}
