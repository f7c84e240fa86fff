package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"question:view",
		"session:create",
		"session:submit",
		"session:view-own",
		"asset:upload",
		"user:change_password",
	},
	"teacher": {
		"question:view",
		"question:author",
		"answerkey:edit",
		"score:preview",
		"session:view-all",
		"asset:upload",
		"users:bulk_upsert",
		"users:list",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
