package pm

var pdmValueFlags = []string{"p", "project", "G", "group", "L", "lockfile"}

type pdm struct {
	base
}

// Install adds packages when any are named, otherwise syncs the lockfile.
func (m pdm) Install(args []string) (ExecRequest, error) {
	if hasUnknownArgs(args, pdmValueFlags) {
		return m.exec(prepend("add", args)...), nil
	}
	return m.exec(prepend("install", args)...), nil
}

func (m pdm) Uninstall(args []string) (ExecRequest, error) {
	return m.exec(prepend("remove", args)...), nil
}

func (m pdm) Update(args []string) (ExecRequest, error) {
	return m.exec(prepend("update", args)...), nil
}

func (m pdm) Run(args []string) (ExecRequest, error) {
	return m.exec(prepend("run", args)...), nil
}
