package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/planpal/planpal-services/internal/appconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
)

var tunnelCmd = &cobra.Command{
	Use:   "tunnel",
	Short: "Forward a local port to the database through an SSH bastion",
	Run: func(cmd *cobra.Command, args []string) {

		loadConfig()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := StartSSHTunnel(ctx, appCfg.Tunnel); err != nil {
			log.Fatal().Err(err).Msg("SSH tunnel failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(tunnelCmd)
}

// SSHClient creates a new SSH client
func SSHClient(config appconfig.TunnelConfig) (*ssh.Client, error) {
	key, err := os.ReadFile(config.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	// Define the SSH client configuration
	sshConfig := &ssh.ClientConfig{
		User: config.SSHUser,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // Development only
		Timeout:         5 * time.Second,
	}

	// Connect to the SSH server
	return ssh.Dial("tcp", net.JoinHostPort(config.SSHHost, config.SSHPort), sshConfig)
}

// ForwardTraffic forwards connections accepted on localListener to the
// remote host until the listener is closed.
func ForwardTraffic(localListener net.Listener, client *ssh.Client, config appconfig.TunnelConfig) {
	remoteAddr := net.JoinHostPort(config.RemoteHost, config.RemotePort)
	for {
		localConn, err := localListener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn().Err(err).Msg("Failed to accept local connection")
			continue
		}

		// Open a connection to the remote host
		remoteConn, err := client.Dial("tcp", remoteAddr)
		if err != nil {
			log.Warn().Err(err).Str("remote", remoteAddr).Msg("Failed to connect to remote host")
			localConn.Close()
			continue
		}

		go func() {
			defer localConn.Close()
			defer remoteConn.Close()

			go io.Copy(remoteConn, localConn)
			io.Copy(localConn, remoteConn)
		}()
	}
}

// StartSSHTunnel runs the tunnel until ctx is cancelled.
func StartSSHTunnel(ctx context.Context, config appconfig.TunnelConfig) error {
	client, err := SSHClient(config)
	if err != nil {
		return err
	}
	defer client.Close()

	localListener, err := net.Listen("tcp", net.JoinHostPort("localhost", config.LocalPort))
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		localListener.Close()
	}()

	log.Info().
		Str("local", localListener.Addr().String()).
		Str("remote", net.JoinHostPort(config.RemoteHost, config.RemotePort)).
		Msg("SSH tunnel started")

	ForwardTraffic(localListener, client, config)
	return nil
}
