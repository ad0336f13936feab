// SPDX-License-Identifier: MPL-2.0

package index

const schema = `
CREATE TABLE IF NOT EXISTS packages (
    path TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    version TEXT NOT NULL,
    major INTEGER NOT NULL,
    minor INTEGER NOT NULL,
    patch INTEGER NOT NULL,
    author TEXT NOT NULL,
    license TEXT,
    purl TEXT NOT NULL,
    dependency_count INTEGER NOT NULL,
    has_native BOOLEAN NOT NULL,
    size_bytes INTEGER NOT NULL,
    mod_time INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_packages_name ON packages(name);
`
