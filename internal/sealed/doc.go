// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package sealed opens and seals passphrase-protected collections. A sealed
// collection is a JSON document carrying a PBKDF2 key provider description
// under "meta" and the AES-GCM encrypted body under "encrypted_data".
package sealed
