// Package encryption provides password-based file encryption using AES in CBC mode.
//
// A key is stretched from the password with PBKDF2 (SHA-512, 500 000 iterations
// by default) over a random salt and stored hex-encoded in a key file. The
// encrypted file holds the IV followed by the base64 ciphertext.
//
// CBC without a MAC does not detect tampering: a modified ciphertext either
// decrypts to different bytes or fails padding validation. Anyone holding the
// key file can decrypt; losing it makes the data unrecoverable.
package encryption
