package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"brc20v2-ledger/core/model"
)

var ErrNoInscriptionID = errors.New("ord reported no inscription id")

// OrdPublisher inscribes payloads on Bitcoin by running `ord wallet inscribe`.
type OrdPublisher struct {
	Binary  string
	Chain   string
	RPCURL  string
	FeeRate uint64
	// WorkDir receives the payload files; empty means the OS temp dir.
	WorkDir string
}

type ordInscribeOutput struct {
	Inscriptions []struct {
		ID string `json:"id"`
	} `json:"inscriptions"`
}

// Args is the ord command line for inscribing file.
func (p *OrdPublisher) Args(file string) []string {
	var args []string
	if p.Chain != "" {
		args = append(args, "--chain", p.Chain)
	}
	if p.RPCURL != "" {
		args = append(args, "--bitcoin-rpc-url", p.RPCURL)
	}
	return append(args,
		"wallet", "inscribe",
		"--fee-rate", strconv.FormatUint(p.FeeRate, 10),
		"--file", file,
	)
}

func (p *OrdPublisher) Publish(ctx context.Context, payload model.Payload) (string, error) {
	f, err := os.CreateTemp(p.WorkDir, "inscription-*"+extensionFor(payload.ContentType))
	if err != nil {
		return "", errors.Wrap(err, "create payload file")
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(payload.Body); err != nil {
		f.Close()
		return "", errors.Wrap(err, "write payload file")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "close payload file")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Binary, p.Args(f.Name())...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		logrus.Errorf("ord inscribe failed: %s", stderr.String())
		return "", errors.Wrapf(err, "run %s", filepath.Base(p.Binary))
	}

	var out ordInscribeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return "", errors.Wrap(err, "parse ord output")
	}
	if len(out.Inscriptions) == 0 || out.Inscriptions[0].ID == "" {
		return "", ErrNoInscriptionID
	}
	logrus.Infof("ord inscribed %s", out.Inscriptions[0].ID)
	return out.Inscriptions[0].ID, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case model.ContentTypeJSON:
		return ".json"
	default:
		return ".txt"
	}
}
