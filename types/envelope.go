package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// {
//   "id": "0xb7a9b935...",
//   "data": "{\"sig\":{\"message\":{\"schema\":\"0x48d9...\",\"recipient\":\"0x6f52...\",\"time\":1718190000,...}},\"signer\":\"0x77a3...\"}",
//   "decodedDataJson": "[{\"name\":\"title\",\"type\":\"string\",\"value\":{\"name\":\"title\",\"type\":\"string\",\"value\":\"Morning Run\"}}]",
//   "revoked": false,
//   "ipfsHash": "QmS4...",
//   "schema": { "id": "0x48d9...", "txid": "0x91fe..." }
// }

// AttestationEnvelope is the wire-level unit returned by the attestation
// index. First-generation envelopes carry the signed offchain payload as a
// JSON string in Data; second-generation envelopes carry raw hex and select
// time/txid at the top level instead.
type AttestationEnvelope struct {
	ID              string    `json:"id"`
	Time            int64     `json:"time,omitempty"`
	Txid            string    `json:"txid,omitempty"`
	Data            string    `json:"data"`
	DecodedDataJSON string    `json:"decodedDataJson"`
	Revoked         bool      `json:"revoked"`
	IpfsHash        string    `json:"ipfsHash"`
	Schema          SchemaRef `json:"schema"`
	Recipient       string    `json:"recipient,omitempty"`
}

type SchemaRef struct {
	ID   string `json:"id"`
	Txid string `json:"txid,omitempty"`
}

// ErrBinaryPayload marks a first-generation envelope whose data field holds a
// bare hex blob instead of the expected signed JSON payload.
var ErrBinaryPayload = errors.New("attestation data is a binary payload")

type offchainPayload struct {
	Signer string `json:"signer"`
	Sig    struct {
		Message struct {
			Schema         string `json:"schema"`
			Recipient      string `json:"recipient"`
			Time           int64  `json:"time"`
			ExpirationTime int64  `json:"expirationTime"`
		} `json:"message"`
	} `json:"sig"`
}

func (a *AttestationEnvelope) offchain() (*offchainPayload, error) {
	if strings.HasPrefix(a.Data, "0x") {
		return nil, fmt.Errorf("attestation %s: %w", a.ID, ErrBinaryPayload)
	}
	var p offchainPayload
	if err := json.Unmarshal([]byte(a.Data), &p); err != nil {
		return nil, fmt.Errorf("attestation %s: parsing offchain payload: %w", a.ID, err)
	}
	return &p, nil
}

// MessageSchemaID returns the schema id declared inside the signed payload.
// Falls back to the index-level schema reference when the payload is binary.
func (a *AttestationEnvelope) MessageSchemaID() string {
	if p, err := a.offchain(); err == nil && p.Sig.Message.Schema != "" {
		return p.Sig.Message.Schema
	}
	return a.Schema.ID
}

// Metadata extracts the attestation-level metadata from the signed payload.
func (a *AttestationEnvelope) Metadata() (AttestationMetadata, error) {
	p, err := a.offchain()
	if err != nil {
		return AttestationMetadata{}, err
	}
	return AttestationMetadata{
		UID:         a.ID,
		CreatedAt:   time.Unix(p.Sig.Message.Time, 0).UTC(),
		Expiration:  p.Sig.Message.ExpirationTime,
		Revoked:     a.Revoked,
		FromAddress: p.Sig.Message.Recipient,
		ToAddress:   p.Signer,
		IpfsHash:    a.IpfsHash,
		Txid:        a.Schema.Txid,
	}, nil
}

func (a *AttestationEnvelope) EASURL() string {
	return "https://base.easscan.org/attestation/" + a.ID
}

func (a *AttestationEnvelope) IPFSURL() string {
	return "ipfs://" + a.IpfsHash
}

// AttestationMetadata carries the publication facts shared by the
// first-generation receipt variants.
type AttestationMetadata struct {
	UID         string    `json:"uid" bson:"uid"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	Expiration  int64     `json:"expiration" bson:"expiration"`
	Revoked     bool      `json:"revoked" bson:"revoked"`
	FromAddress string    `json:"fromAddress" bson:"fromAddress"`
	ToAddress   string    `json:"toAddress" bson:"toAddress"`
	IpfsHash    string    `json:"ipfsHash" bson:"ipfsHash"`
	Txid        string    `json:"txId" bson:"txId"`
}
