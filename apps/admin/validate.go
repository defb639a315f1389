package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

func (cli *commandLine) validate(code string) error {
	v, err := cli.certSvc.Validate(context.Background(), code)
	if err != nil {
		return errors.Wrap(err, "validating certificate")
	}
	_, _ = fmt.Fprintf(cli.out, "certificate %s is valid until %s (user %s, course %s)\n",
		v.Code, v.ExpiresOn.Format("2006-01-02"), v.UserID, v.CourseID)
	return nil
}
