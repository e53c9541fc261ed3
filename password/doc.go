// Package password implements the salted password hashing schemes the
// engine's default PasswordVerifier understands.
//
// Two schemes are provided. SaltedSHA256 is the legacy wire format
// (hex SHA-256 over password||salt, base64 salt) that existing account
// records carry. PBKDF2 is the stretched upgrade path for new
// deployments. Both verify in constant time and both satisfy the root
// package's PasswordVerifier port.
//
// Hash format and salt handling are part of the stored account record;
// nothing in this package touches the network or any store.
package password
