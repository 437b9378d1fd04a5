// Package cql is a client for the Cassandra CQL binary protocol, versions 1
// and 2. It speaks the wire format directly -- frame header, compression,
// and the value codec -- without shelling out to a CQL parser or relying on
// a gateway process.
//
// A minimal round trip:
//
//	sess, err := cql.Dial("127.0.0.1:9042", cql.DialOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sess.Close()
//
//	res, err := sess.Query(context.Background(), "SELECT id, name FROM users", cql.One, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer res.Rows.Close()
//	for res.Rows.Next() {
//		var id uuid.UUID
//		var name string
//		if err := res.Rows.Scan(&id, &name); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// A Session is not safe for concurrent use by multiple goroutines; callers
// that need concurrency should run their own pool of Sessions.
package cql
