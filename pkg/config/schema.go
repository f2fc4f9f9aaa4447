package config

// Schema is the JSON schema for validating .fastdeploy configuration files
const Schema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "properties": {
        "localPath": {
            "type": "string",
            "minLength": 1,
            "description": "Local directory to upload (default: dist)"
        },
        "remotePath": {
            "type": "string",
            "minLength": 1,
            "description": "Remote directory that receives the uploaded tree"
        },
        "backupPath": {
            "type": "string",
            "description": "Remote directory for rotated backups, omit to disable"
        },
        "keepBackups": {
            "type": "integer",
            "minimum": 0
        },
        "exclude": {
            "type": "array",
            "items": {"type": "string"}
        },
        "concurrency": {
            "type": "integer",
            "minimum": 1
        },
        "logLevel": {
            "type": "string",
            "enum": ["debug", "info", "warn", "error"]
        },
        "logFormat": {
            "type": "string",
            "enum": ["console", "json"]
        },
        "server": {
            "type": "object",
            "properties": {
                "host": {"type": "string", "minLength": 1},
                "port": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 65535
                },
                "username": {"type": "string", "minLength": 1},
                "password": {"type": "string"},
                "privateKey": {"type": "string"},
                "privateKeyPath": {"type": "string"},
                "passphrase": {"type": "string"},
                "knownHostsFile": {"type": "string"},
                "insecureIgnoreHostKey": {"type": "boolean"},
                "timeout": {
                    "type": "integer",
                    "minimum": 1
                }
            },
            "required": ["host", "username"],
            "anyOf": [
                {"required": ["password"]},
                {"required": ["privateKey"]},
                {"required": ["privateKeyPath"]}
            ]
        }
    },
    "required": ["remotePath", "server"]
}`
