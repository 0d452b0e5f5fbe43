package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"
)

// RunRotateMasterKey generates a new master key and combines it with the
// existing key chain. Old keys stay in MASTER_KEYS so previously encrypted
// fields remain readable and previously signed audit entries remain
// verifiable; the new key becomes active for everything written next.
func RunRotateMasterKey(
	writer io.Writer,
	keyID, existingMasterKeys, existingActiveKeyID string,
) error {
	if existingMasterKeys == "" {
		return fmt.Errorf("MASTER_KEYS is not set - cannot rotate without existing keys")
	}
	if existingActiveKeyID == "" {
		return fmt.Errorf("ACTIVE_MASTER_KEY_ID is not set")
	}

	if keyID == "" {
		keyID = fmt.Sprintf("master-key-%s", time.Now().Format("2006-01-02"))
	}

	for _, pair := range strings.Split(existingMasterKeys, ",") {
		existingID, _, found := strings.Cut(pair, ":")
		if !found {
			return fmt.Errorf("malformed MASTER_KEYS entry: %q", pair)
		}
		if existingID == keyID {
			return fmt.Errorf("key ID %q already exists in MASTER_KEYS", keyID)
		}
	}

	masterKey := make([]byte, 32)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer func() {
		for i := range masterKey {
			masterKey[i] = 0
		}
	}()

	encodedKey := base64.StdEncoding.EncodeToString(masterKey)
	newMasterKeys := fmt.Sprintf("%s,%s:%s", existingMasterKeys, keyID, encodedKey)

	_, _ = fmt.Fprintln(writer, "# Master Key Rotation")
	_, _ = fmt.Fprintf(writer, "# Previous active key: %s\n", existingActiveKeyID)
	_, _ = fmt.Fprintf(writer, "# New active key: %s\n", keyID)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "MASTER_KEYS=\"%s\"\n", newMasterKeys)
	_, _ = fmt.Fprintf(writer, "ACTIVE_MASTER_KEY_ID=\"%s\"\n", keyID)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Keep the old keys in MASTER_KEYS until all data has been rewritten")
	_, _ = fmt.Fprintln(writer, "# with the new key and the audit log has been re-verified.")

	return nil
}
