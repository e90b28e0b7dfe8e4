package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("translate", func() {
	DescribeTable("maps driver errors onto repository errors",
		func(err, want error) {
			Expect(translate(err)).To(MatchError(want))
		},
		Entry("no rows", pgx.ErrNoRows, ErrNotFound),
		Entry("wrapped no rows", fmt.Errorf("scan ticket: %w", pgx.ErrNoRows), ErrNotFound),
		Entry("unique violation", &pgconn.PgError{Code: uniqueViolation}, ErrConflict),
		Entry("row policy", &pgconn.PgError{Code: insufficientPrivilege}, ErrRowPolicy),
	)

	It("passes other errors through", func() {
		err := errors.New("conn closed")
		Expect(translate(err)).To(BeIdenticalTo(err))
		Expect(translate(nil)).To(Succeed())
	})
})
