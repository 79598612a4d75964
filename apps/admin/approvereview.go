package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) approveReview(id string) error {
	r, err := cli.reviewSvc.Approve(context.Background(), id)
	if err != nil {
		return err
	}
	fmt.Printf("review %s by %s approved\n", r.ID, r.Name)
	return nil
}
