// Package all wires all built-in storage backends into the storage factory.
//
// Importing it (as a blank import) runs the init functions of each backend,
// which register their Repository factories and DDL builders:
//
//   - "mysql"  (internal/storage/mysql)
//   - "sqlite" (internal/storage/sqlite)
//
// The "generic" DDL kind is always available from the storage package itself.
package all

import (
	_ "github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/storage/mysql"
	_ "github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/storage/sqlite"
)
