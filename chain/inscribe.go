package chain

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"brc20v2-ledger/core/model"
)

var (
	ErrorNoPrefix  = errors.New("no prefix")
	ErrorNoContent = errors.New("no content")
	ErrorNotUTF8   = errors.New("content is not valid utf8 string")

	dataPrefix = []byte("data:")
)

// Publisher embeds an inscription payload in an append-only medium and
// returns the medium's identifier for it.
type Publisher interface {
	Publish(ctx context.Context, payload model.Payload) (string, error)
}

// EncodeDataURI renders payload as "data:<content-type>,<content>".
func EncodeDataURI(payload model.Payload) []byte {
	var buf bytes.Buffer
	buf.Write(dataPrefix)
	buf.WriteString(payload.ContentType)
	buf.WriteByte(',')
	buf.Write(payload.Body)
	return buf.Bytes()
}

// DecodeDataURI splits calldata written by EncodeDataURI. A missing content
// type means text/plain.
func DecodeDataURI(input []byte) (contentType string, content string, err error) {
	if !bytes.HasPrefix(input, dataPrefix) {
		return "", "", ErrorNoPrefix
	}
	text := string(input)
	sepIdx := strings.Index(text, ",")
	if sepIdx == -1 || sepIdx == len(text)-1 {
		return "", "", ErrorNoContent
	}
	contentType = "text/plain"
	if sepIdx > len(dataPrefix) {
		contentType = text[len(dataPrefix):sepIdx]
	}
	content = text[sepIdx+1:]
	if !utf8.ValidString(content) {
		return "", "", ErrorNotUTF8
	}
	return contentType, content, nil
}

// CalldataPublisher inscribes payloads as data-URI calldata on a
// self-addressed EVM transaction. The transaction hash is the identifier.
type CalldataPublisher struct {
	client *BlockchainClient
}

func NewCalldataPublisher(client *BlockchainClient) *CalldataPublisher {
	return &CalldataPublisher{client: client}
}

func (p *CalldataPublisher) Publish(ctx context.Context, payload model.Payload) (string, error) {
	txHash, err := p.client.SendData(ctx, p.client.Address(), EncodeDataURI(payload))
	if err != nil {
		return "", errors.Wrap(err, "inscribe calldata")
	}
	logrus.Infof("inscribed %d bytes of %s in %s", len(payload.Body), payload.ContentType, txHash.Hex())
	return txHash.Hex(), nil
}
