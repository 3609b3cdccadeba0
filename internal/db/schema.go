package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- CATEGORY TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS category SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON category TYPE string;
    DEFINE FIELD IF NOT EXISTS description ON category TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS color ON category TYPE string DEFAULT '#3B82F6';
    DEFINE FIELD IF NOT EXISTS is_active ON category TYPE bool DEFAULT true;
    DEFINE FIELD IF NOT EXISTS created ON category TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS category_name ON category FIELDS name UNIQUE;

    -- ==========================================================================
    -- BILL TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS bill SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON bill TYPE string;
    DEFINE FIELD IF NOT EXISTS description ON bill TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS amount ON bill TYPE number;
    DEFINE FIELD IF NOT EXISTS due_date ON bill TYPE datetime;
    DEFINE FIELD IF NOT EXISTS status ON bill TYPE string DEFAULT 'pending';
    DEFINE FIELD IF NOT EXISTS frequency ON bill TYPE string DEFAULT 'one_time';
    DEFINE FIELD IF NOT EXISTS category ON bill TYPE record<category>;
    DEFINE FIELD IF NOT EXISTS vendor ON bill TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS notes ON bill TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON bill TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS bill_due_date ON bill FIELDS due_date;
    DEFINE INDEX IF NOT EXISTS bill_status ON bill FIELDS status;
    DEFINE INDEX IF NOT EXISTS bill_category ON bill FIELDS category;
`
