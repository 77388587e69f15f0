package partner

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
)

// cipheredEnvelope is the shape the partner uses when payload ciphering is
// active for the merchant contract.
type cipheredEnvelope struct {
	EncryptedMessage string `json:"encrypted_message"`
}

// DecodeStatusResponse turns a raw response body into a StatusResponse.
// Bodies arrive either as plain structured JSON or as a ciphered blob under
// "encrypted_message", decrypted with the merchant's symmetric key; both
// shapes are detected transparently. An unparseable body yields a response
// without a purchase status rather than an error, so the engines can handle
// "malformed" as a data condition.
func DecodeStatusResponse(body []byte, key string) StatusResponse {
	if len(body) == 0 {
		return StatusResponse{}
	}

	var envelope cipheredEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.EncryptedMessage != "" {
		plain, err := decrypt(envelope.EncryptedMessage, key)
		if err != nil {
			return StatusResponse{}
		}
		body = plain
	}

	var resp StatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return StatusResponse{}
	}
	resp.raw = body
	return resp
}

// decrypt opens a base64 AES-256-GCM blob with the nonce prefixed to the
// ciphertext. The key string is stretched with SHA-256, matching the
// out-of-band key exchange with the partner.
func decrypt(encoded, key string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(digest[:])
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(blob) < gcm.NonceSize() {
		return nil, errCipherTooShort
	}
	nonce, ciphertext := blob[:gcm.NonceSize()], blob[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// Encrypt is the inverse of the response decryption, used by tests and by
// the sandbox tooling to fabricate ciphered bodies.
func Encrypt(plain []byte, key string, nonce []byte) (string, error) {
	digest := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(digest[:])
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", errBadNonceSize
	}
	sealed := gcm.Seal(nil, nonce, plain, nil)
	return base64.StdEncoding.EncodeToString(append(append([]byte{}, nonce...), sealed...)), nil
}

var (
	errCipherTooShort = decodeError("ciphered blob shorter than nonce")
	errBadNonceSize   = decodeError("nonce size mismatch")
)

type decodeError string

func (e decodeError) Error() string { return string(e) }
