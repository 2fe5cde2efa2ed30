// Package env provides functionality for loading environment variables from
// different sources before the deployment configuration is interpolated.
package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	vault "github.com/sosedoff/ansible-vault-go"
	"golang.org/x/term"
)

// Loader defines the interface for loading environment variables.
type Loader interface {
	Load(path, vaultPassword string) error
}

// Decrypter decrypts Ansible Vault encrypted content.
type Decrypter func(content, password string) (string, error)

// DefaultLoader implements the Loader interface using godotenv, with
// Ansible Vault support for encrypted credential files.
type DefaultLoader struct {
	decrypter Decrypter
	prompt    func() (string, error)
}

// LoaderOption defines functional options for DefaultLoader
type LoaderOption func(*DefaultLoader)

// WithDecrypter sets the vault decrypter.
func WithDecrypter(decrypter Decrypter) LoaderOption {
	return func(l *DefaultLoader) {
		l.decrypter = decrypter
	}
}

// WithPasswordPrompt sets the interactive password prompt.
func WithPasswordPrompt(prompt func() (string, error)) LoaderOption {
	return func(l *DefaultLoader) {
		l.prompt = prompt
	}
}

// NewLoader creates a new environment loader with default implementations.
func NewLoader(opts ...LoaderOption) Loader {
	loader := &DefaultLoader{
		decrypter: vault.Decrypt,
		prompt:    promptVaultPassword,
	}

	for _, opt := range opts {
		opt(loader)
	}

	return loader
}

// Load loads environment variables from a file. Files with a .vault suffix
// are decrypted first.
func (l *DefaultLoader) Load(path, vaultPassword string) error {
	if path == "" {
		return nil
	}

	if strings.HasSuffix(path, ".vault") {
		return l.loadVaultFile(path, vaultPassword)
	}

	return godotenv.Load(path)
}

// loadVaultFile loads environment variables from an Ansible Vault encrypted file.
func (l *DefaultLoader) loadVaultFile(path, password string) error {
	password, err := l.resolveVaultPassword(password)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read vault file: %w", err)
	}

	decrypted, err := l.decrypter(string(data), password)
	if err != nil {
		return fmt.Errorf("vault decryption failed: %w", err)
	}

	return setEnvironmentVariables(decrypted)
}

// resolveVaultPassword determines the password to use for decryption
func (l *DefaultLoader) resolveVaultPassword(password string) (string, error) {
	if password != "" {
		return password, nil
	}

	if envPwd := os.Getenv("VAULT_PASSWORD"); envPwd != "" {
		return envPwd, nil
	}

	promptedPwd, err := l.prompt()
	if err != nil {
		return "", fmt.Errorf("failed to get vault password: %w", err)
	}
	return promptedPwd, nil
}

// setEnvironmentVariables parses and sets environment variables from decrypted content
func setEnvironmentVariables(decrypted string) error {
	envMap, err := godotenv.Unmarshal(decrypted)
	if err != nil {
		return fmt.Errorf("environment unmarshaling failed: %w", err)
	}

	for k, v := range envMap {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("failed to set environment variable %s: %w", k, err)
		}
	}

	return nil
}

// promptVaultPassword prompts the user for a vault password.
func promptVaultPassword() (string, error) {
	fmt.Print("Enter vault password: ")

	if password, err := term.ReadPassword(int(syscall.Stdin)); err == nil {
		fmt.Println()
		return string(password), nil
	}

	// Fallback to standard input if term.ReadPassword fails
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadBytes('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return strings.TrimSpace(string(password)), nil
}
