// Package main provides the piicrypt command line tool.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ai8future/piicrypt"
	"github.com/ai8future/piicrypt/cmd/piicrypt/commands"
	"github.com/ai8future/piicrypt/internal/config"
)

func main() {
	cmd := &cli.Command{
		Name:     "piicrypt",
		Usage:    "Encrypt, decrypt and hash PII field values",
		Version:  "1.0.0",
		Commands: getCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// withCipher loads configuration, builds the cipher and hands it to run.
// Logs go to stderr so stdout carries only command output.
func withCipher(run func(cipher *piicrypt.Cipher, logger *slog.Logger) error) error {
	cfg := config.Load()
	logger := cfg.Logger(os.Stderr)

	cipher, err := cfg.NewCipher(logger)
	if err != nil {
		return err
	}
	defer cipher.Close()

	return run(cipher, logger)
}

func contextFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "context",
		Aliases:  []string{"c"},
		Required: true,
		Usage:    "Field context, e.g. user:firstName",
	}
}

func emailFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "entity",
			Aliases: []string{"e"},
			Usage:   "Entity owning the email column (default user)",
		},
		&cli.StringFlag{
			Name:    "field",
			Aliases: []string{"f"},
			Usage:   "Email field name (default email)",
		},
	}
}

func getCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "keygen",
			Usage: "Generate a new encryption key and hash key",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunKeygen(commands.DefaultIO().Writer)
			},
		},
		{
			Name:      "encrypt",
			Usage:     "Encrypt a value (read from stdin when omitted or -)",
			ArgsUsage: "[value]",
			Flags:     []cli.Flag{contextFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCipher(func(cipher *piicrypt.Cipher, logger *slog.Logger) error {
					return commands.RunEncrypt(cipher, logger, commands.DefaultIO(),
						cmd.String("context"), cmd.Args().First())
				})
			},
		},
		{
			Name:      "decrypt",
			Usage:     "Decrypt a payload (read from stdin when omitted or -)",
			ArgsUsage: "[payload]",
			Flags:     []cli.Flag{contextFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCipher(func(cipher *piicrypt.Cipher, logger *slog.Logger) error {
					return commands.RunDecrypt(cipher, logger, commands.DefaultIO(),
						cmd.String("context"), cmd.Args().First())
				})
			},
		},
		{
			Name:      "reseal",
			Usage:     "Re-encrypt a payload under a new context",
			ArgsUsage: "[payload]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "from", Required: true, Usage: "Context the payload is sealed under"},
				&cli.StringFlag{Name: "to", Required: true, Usage: "Context to seal the payload under"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCipher(func(cipher *piicrypt.Cipher, logger *slog.Logger) error {
					return commands.RunReseal(cipher, logger, commands.DefaultIO(),
						cmd.String("from"), cmd.String("to"), cmd.Args().First())
				})
			},
		},
		{
			Name:      "hash",
			Usage:     "Compute the lookup hash of a value",
			ArgsUsage: "[value]",
			Flags: []cli.Flag{
				contextFlag(),
				&cli.StringFlag{
					Name:    "normalize",
					Aliases: []string{"n"},
					Value:   "none",
					Usage:   "Normalizer: none, trim, email or phone",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCipher(func(cipher *piicrypt.Cipher, logger *slog.Logger) error {
					return commands.RunHash(cipher, logger, commands.DefaultIO(),
						cmd.String("context"), cmd.String("normalize"), cmd.Args().First())
				})
			},
		},
		{
			Name:      "protect-email",
			Usage:     "Validate an email and print its ciphertext and lookup hash",
			ArgsUsage: "[email]",
			Flags: append(emailFlags(), &cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "Output format: 'text' or 'json'",
			}),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCipher(func(cipher *piicrypt.Cipher, logger *slog.Logger) error {
					return commands.RunProtectEmail(cipher, logger, commands.DefaultIO(),
						cmd.String("entity"), cmd.String("field"), cmd.Args().First(), cmd.String("format"))
				})
			},
		},
		{
			Name:      "hash-email",
			Usage:     "Print the lookup hash to search an email by",
			ArgsUsage: "[email]",
			Flags:     emailFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withCipher(func(cipher *piicrypt.Cipher, logger *slog.Logger) error {
					return commands.RunHashEmail(cipher, commands.DefaultIO(),
						cmd.String("entity"), cmd.String("field"), cmd.Args().First())
				})
			},
		},
	}
}
