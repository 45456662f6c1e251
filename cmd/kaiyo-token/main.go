// Command kaiyo-token issues an access token for local use and testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/sat-tum/kaiyo-api/internal/models"
	"github.com/sat-tum/kaiyo-api/internal/service"
	"github.com/sat-tum/kaiyo-api/pkg/config"
)

func main() {
	studentID := flag.String("student", "", "student ID the token is scoped to")
	role := flag.String("role", string(models.RoleStudent), "STUDENT or ADMIN")
	expiry := flag.Duration("expiry", 0, "token lifetime (default: JWT_EXPIRATION)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		color.Red("load config: %v", err)
		os.Exit(1)
	}

	token, expiresAt, err := issue(cfg.JWT, *studentID, *role, *expiry)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
}

func issue(jwtCfg config.JWTConfig, studentID, role string, expiry time.Duration) (string, time.Time, error) {
	r := models.UserRole(strings.ToUpper(strings.TrimSpace(role)))
	if r != models.RoleStudent && r != models.RoleAdmin {
		return "", time.Time{}, fmt.Errorf("unknown role %q", role)
	}
	if expiry <= 0 {
		expiry = jwtCfg.Expiration
	}
	tokens := service.NewTokenService(service.TokenConfig{Secret: jwtCfg.Secret, Issuer: jwtCfg.Issuer, Expiry: expiry})
	return tokens.Issue(strings.TrimSpace(studentID), r)
}
