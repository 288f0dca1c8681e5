package chain

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brc20v2-ledger/core/model"
)

func testPayload(t *testing.T) model.Payload {
	t.Helper()
	payload, err := model.NewPayload(model.Mint{
		Tick:   "ORD",
		To:     model.NewIdentityCommitment("alice"),
		Amount: model.NewAmount(600),
	}, model.EmptyRoot)
	require.NoError(t, err)
	return payload
}

func TestDataURI(t *testing.T) {
	payload := testPayload(t)
	encoded := EncodeDataURI(payload)
	assert.True(t, strings.HasPrefix(string(encoded), "data:application/json,{"))

	contentType, content, err := DecodeDataURI(encoded)
	require.NoError(t, err)
	assert.Equal(t, model.ContentTypeJSON, contentType)
	assert.Equal(t, string(payload.Body), content)

	contentType, content, err = DecodeDataURI([]byte("data:,hello"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, "hello", content)

	_, _, err = DecodeDataURI([]byte("hello"))
	assert.ErrorIs(t, err, ErrorNoPrefix)
	_, _, err = DecodeDataURI([]byte("data:text/plain"))
	assert.ErrorIs(t, err, ErrorNoContent)
	_, _, err = DecodeDataURI([]byte("data:text/plain,"))
	assert.ErrorIs(t, err, ErrorNoContent)
	_, _, err = DecodeDataURI([]byte("data:,\xff\xfe"))
	assert.ErrorIs(t, err, ErrorNotUTF8)
}

func TestCalldataPublisher(t *testing.T) {
	client, backend, _ := newTestClient(t, 0)
	payload := testPayload(t)

	id, err := NewCalldataPublisher(client).Publish(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)

	tx := backend.sent[0]
	assert.Equal(t, tx.Hash().Hex(), id)
	assert.Equal(t, client.Address(), *tx.To())

	_, content, err := DecodeDataURI(tx.Data())
	require.NoError(t, err)
	op, root, err := model.ParseInscription([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, model.OperationMint, op.Kind())
	assert.Equal(t, model.EmptyRoot, root)
}

func fakeOrd(t *testing.T, body string) (binary, dir string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	dir = t.TempDir()
	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$@\" > " + filepath.Join(dir, "args") + "\n" +
		"for a; do last=$a; done\n" +
		"cp \"$last\" " + filepath.Join(dir, "payload") + "\n" +
		body + "\n"
	binary = filepath.Join(dir, "ord")
	require.NoError(t, os.WriteFile(binary, []byte(script), 0o755))
	return binary, dir
}

func TestOrdPublisher(t *testing.T) {
	binary, dir := fakeOrd(t, `echo '{"commit":"c0","inscriptions":[{"id":"6fb976ab49dcec017f1e201e84395983204ae1a7c2abf7ced0a85d692e442799i0","location":"x"}],"parent":null}'`)
	publisher := &OrdPublisher{
		Binary:  binary,
		Chain:   "signet",
		RPCURL:  "http://127.0.0.1:38332",
		FeeRate: 12,
		WorkDir: dir,
	}
	payload := testPayload(t)

	id, err := publisher.Publish(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "6fb976ab49dcec017f1e201e84395983204ae1a7c2abf7ced0a85d692e442799i0", id)

	args, err := os.ReadFile(filepath.Join(dir, "args"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(args)), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, []string{"--chain", "signet", "--bitcoin-rpc-url", "http://127.0.0.1:38332", "wallet", "inscribe", "--fee-rate", "12", "--file"}, lines[:9])
	assert.True(t, strings.HasSuffix(lines[9], ".json"))

	written, err := os.ReadFile(filepath.Join(dir, "payload"))
	require.NoError(t, err)
	assert.Equal(t, []byte(payload.Body), written)

	_, err = os.Stat(lines[9])
	assert.True(t, os.IsNotExist(err))
}

func TestOrdPublisherFailures(t *testing.T) {
	binary, dir := fakeOrd(t, `echo '{"inscriptions":[]}'`)
	publisher := &OrdPublisher{Binary: binary, FeeRate: 1, WorkDir: dir}
	_, err := publisher.Publish(context.Background(), testPayload(t))
	assert.ErrorIs(t, err, ErrNoInscriptionID)

	binary, dir = fakeOrd(t, `echo "wallet locked" >&2; exit 1`)
	publisher = &OrdPublisher{Binary: binary, FeeRate: 1, WorkDir: dir}
	_, err = publisher.Publish(context.Background(), testPayload(t))
	assert.Error(t, err)

	assert.Equal(t, []string{"wallet", "inscribe", "--fee-rate", "1", "--file", "f"}, (&OrdPublisher{FeeRate: 1}).Args("f"))
}

var _ Publisher = (*OrdPublisher)(nil)
var _ Publisher = (*CalldataPublisher)(nil)
