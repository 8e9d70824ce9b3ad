// Command hash-generator prints the SQL that seeds an admin account.
//
// Exam authoring is restricted to users with is_admin set, and the API
// never grants that flag, so operators create the first admin directly:
//
//	echo 'geheimes-passwort' | hash-generator -email lehrer@example.de | psql "$DATABASE_URL"
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("hash-generator", flag.ContinueOnError)
	email := fs.String("email", "", "email address of the admin account")
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := readPassword(stdin)
	if err != nil {
		return err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := auth.NewBcryptHasher(*cost).Hash(password)
	if err != nil {
		return err
	}

	user, err := domain.NewEmailUser(*email, hash)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout,
		"INSERT INTO users (email, hashed_password, auth_provider, is_active, is_admin)\n"+
			"VALUES ('%s', '%s', '%s', TRUE, TRUE)\n"+
			"ON CONFLICT (email) DO UPDATE SET hashed_password = EXCLUDED.hashed_password, is_admin = TRUE;\n",
		quoteLiteral(user.Email), *user.HashedPassword, user.AuthProvider)
	return err
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("no password on stdin")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}

func quoteLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
