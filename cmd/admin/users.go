package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-backend/internal/auth/domain"
)

var errNoPassword = errors.New("no password: set ADMIN_PASSWORD or pipe it on stdin")

// userAdmin is satisfied by *service.AuthService.
type userAdmin interface {
	CreateUser(ctx context.Context, username, password string) (*domain.User, error)
	SetPassword(ctx context.Context, username, password string) error
}

// passwordSource supplies the password when it is not given on the command
// line, keeping it out of shell history and the process list.
type passwordSource struct {
	env   func(string) string
	stdin io.Reader
}

func (p passwordSource) read() (string, error) {
	if p.env != nil {
		if v := p.env("ADMIN_PASSWORD"); v != "" {
			return v, nil
		}
	}
	if p.stdin == nil {
		return "", errNoPassword
	}

	line, err := bufio.NewReader(p.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errNoPassword
	}
	return line, nil
}

func credentials(cmd string, args []string, pw passwordSource) (string, string, error) {
	switch len(args) {
	case 1:
		password, err := pw.read()
		if err != nil {
			return "", "", err
		}
		return args[0], password, nil
	case 2:
		return args[0], args[1], nil
	default:
		return "", "", fmt.Errorf("usage: admin %s <username> [password]", cmd)
	}
}

func runCreateUser(ctx context.Context, users userAdmin, args []string, pw passwordSource, log *zap.Logger) error {
	username, password, err := credentials("create-user", args, pw)
	if err != nil {
		return err
	}

	u, err := users.CreateUser(ctx, username, password)
	if err != nil {
		return err
	}

	log.Info("user created", zap.Int64("id", u.ID), zap.String("username", u.Username))
	return nil
}

func runSetPassword(ctx context.Context, users userAdmin, args []string, pw passwordSource, log *zap.Logger) error {
	username, password, err := credentials("set-password", args, pw)
	if err != nil {
		return err
	}

	if err := users.SetPassword(ctx, username, password); err != nil {
		return err
	}

	log.Info("password updated", zap.String("username", username))
	return nil
}
