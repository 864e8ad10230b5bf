package gateway

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"strings"
)

// escape form-encodes v the way the gateway does, which also encodes "~".
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "~", "%7E")
}

// Encode returns the canonical query string for params: every field except
// "signature", in order, as key=value joined by "&", values percent-encoded
// with spaces as "+".
func Encode(params Params) (string, error) {
	var b strings.Builder
	for _, f := range params {
		if f.Key == SignatureField {
			continue
		}
		v, err := render(f.Value)
		if err != nil {
			return "", err
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(escape(v))
	}
	return b.String(), nil
}

// Sign returns the lowercase hex MD5 signature over the canonical encoding of
// params, with the passphrase appended when one is configured.
func Sign(params Params, passphrase string) (string, error) {
	encoded, err := Encode(params)
	if err != nil {
		return "", err
	}
	if passphrase = strings.TrimSpace(passphrase); passphrase != "" {
		encoded += "&passphrase=" + escape(passphrase)
	}
	sum := md5.Sum([]byte(encoded))
	return hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the signature over params and compares it with signature.
func Verify(params Params, signature, passphrase string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	expected, err := Sign(params, passphrase)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}

// SignedBody returns the form-encoded params followed by their signature, as
// the gateway posts a notification.
func SignedBody(params Params, passphrase string) (string, error) {
	encoded, err := Encode(params)
	if err != nil {
		return "", err
	}
	signature, err := Sign(params, passphrase)
	if err != nil {
		return "", err
	}
	return encoded + "&" + SignatureField + "=" + signature, nil
}
