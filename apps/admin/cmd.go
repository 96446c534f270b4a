package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp   = errors.New("help provided")
	errNoSQL  = errors.New("migrate needs the postgres store: set USER_STORE or NOTE_STORE to postgres")
	errNoPass = errors.New("password required")
)

type commandLine struct {
	db       *sql.DB // nil unless a store lives in postgres
	usrSvc   user.Service
	files    core.FileStorage
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME [-major M] [-year Y] [-interests a,b] - create a user")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME - reset user's password")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status...)")
	fmt.Fprintln(cli.out, "  download -name FILE [-out DIR] - copy a shared file into DIR")
}

func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The user's name. The password will be prompted next.")
	addUserMajor := addUserCmd.String("major", "", "The user's major.")
	addUserYear := addUserCmd.String("year", "", "The user's year of study.")
	addUserInterests := addUserCmd.String("interests", "", "Comma-separated interests.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's name. The password will be prompted next.")

	downloadCmd := flag.NewFlagSet("download", flag.ExitOnError)
	downloadName := downloadCmd.String("name", "", "The shared file name.")
	downloadOut := downloadCmd.String("out", defaultDownloadDir, "The directory to copy the file into.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addUserCmd)
		if err != nil {
			return err
		}
		profile := user.Profile{Major: *addUserMajor, Year: *addUserYear, Interests: core.SplitList(*addUserInterests)}
		return cli.addUser(*addUserUname, pwd, profile)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "download":
		if err := downloadCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *downloadName == "" {
			downloadCmd.Usage()
			return errHelp
		}
		return cli.download(*downloadName, *downloadOut)
	default:
		cli.printUsage()
		return errHelp
	}
}
