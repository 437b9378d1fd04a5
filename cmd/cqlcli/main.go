// Command cqlcli runs a single CQL statement against a node and prints the
// result. It exists to exercise the library end to end, not as a general
// purpose shell.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/santhosh-tekuri/cql"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:9042", "node address")
	user := flag.String("user", "", "username (omit to skip authentication)")
	pass := flag.String("pass", "", "password")
	keyspace := flag.String("keyspace", "", "keyspace to USE before running the statement")
	compression := flag.String("compression", "", "compression algorithm: snappy, lz4, or empty for none")
	v1 := flag.Bool("v1", false, "speak protocol v1 instead of v2")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cqlcli [flags] 'SELECT ...'")
		os.Exit(2)
	}
	stmt := flag.Arg(0)

	opts := cql.DialOptions{
		Compression: cql.Compression(*compression),
	}
	if *v1 {
		opts.ProtocolVersion = cql.ProtocolVersion1
	}
	if *user != "" {
		opts.Authenticator = cql.PasswordAuthenticator{Username: *user, Password: *pass}
	}
	if *verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
		opts.Logger = cql.NewZapLogger(zl.Sugar())
	}

	sess, err := cql.Dial(*addr, opts)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer sess.Close()

	ctx := context.Background()
	if *keyspace != "" {
		if err := sess.UseKeyspace(ctx, *keyspace); err != nil {
			log.Fatalf("use keyspace: %v", err)
		}
	}

	res, err := sess.Query(ctx, stmt, cql.One, nil)
	if err != nil {
		log.Fatalf("query: %v", err)
	}
	if res.Rows == nil {
		fmt.Println("OK")
		return
	}
	defer res.Rows.Close()

	names := make([]string, len(res.Rows.Columns()))
	for i, c := range res.Rows.Columns() {
		names[i] = c.Name
	}
	fmt.Println(strings.Join(names, "\t"))

	for res.Rows.Next() {
		row := make([]string, len(names))
		vals := make([]interface{}, len(names))
		ptrs := make([]interface{}, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := res.Rows.Scan(ptrs...); err != nil {
			log.Fatalf("scan: %v", err)
		}
		for i, v := range vals {
			row[i] = fmt.Sprint(v)
		}
		fmt.Println(strings.Join(row, "\t"))
	}
	if err := res.Rows.Err(); err != nil && !cql.IsExhaustedError(err) {
		log.Fatalf("rows: %v", err)
	}
}
